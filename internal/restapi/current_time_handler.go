package restapi

import (
	"net/http"

	"mrt6.timetable.org/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	now := api.Now()
	api.sendResponse(w, r, models.NewOKResponse(models.NewCurrentTimeData(now, api.VariantFor(now))))
}
