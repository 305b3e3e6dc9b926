package restapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"mrt6.timetable.org/internal/models"
)

// sendResponse encodes before writing so that an encoding failure can still
// become a 500
func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(response); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	setJSONResponseType(w)
	_, _ = w.Write(buf.Bytes())
}

func setJSONResponseType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}
