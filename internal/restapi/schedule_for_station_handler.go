package restapi

import (
	"net/http"

	"mrt6.timetable.org/internal/models"
)

func (api *RestAPI) scheduleForStationHandler(w http.ResponseWriter, r *http.Request) {
	query, fieldErrors := api.parseStationQuery(r)
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	tt, ok := api.Schedules.Get(query.variant)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	station, ok := resolveStation(tt, query.station)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	directions := make([]models.DirectionTimes, 0, len(tt.Directions))
	for _, d := range tt.Directions {
		directions = append(directions, models.DirectionTimes{
			Terminus: d,
			Times:    formatTimes(tt.ClockTimes(station, d)),
		})
	}

	entry := models.StationScheduleEntry{
		Station:    station,
		Variant:    query.variant,
		Directions: directions,
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, api.buildReferences(query.variant, station)))
}
