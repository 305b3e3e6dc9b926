package restapi

import (
	"net/http"

	"mrt6.timetable.org/internal/models"
	"mrt6.timetable.org/internal/utils"
)

func (api *RestAPI) timetableHandler(w http.ResponseWriter, r *http.Request) {
	variant := utils.ExtractIDFromParams(r, "variant")
	if err := utils.ValidateVariant(variant); err != nil || variant == "" {
		msg := "variant is required"
		if err != nil {
			msg = err.Error()
		}
		api.validationErrorResponse(w, r, map[string][]string{"variant": {msg}})
		return
	}

	tt, ok := api.Schedules.Get(variant)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	entry := models.TimetableEntry{
		Variant:    tt.Variant,
		Stations:   tt.Stations,
		Directions: tt.Directions,
		Timetable:  tt,
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, api.buildReferences(variant)))
}
