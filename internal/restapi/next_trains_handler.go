package restapi

import (
	"net/http"
	"strings"
	"time"

	"mrt6.timetable.org/internal/models"
	"mrt6.timetable.org/internal/timetable"
	"mrt6.timetable.org/internal/utils"
)

// stationQuery is the validated input shared by the station endpoints
type stationQuery struct {
	station string
	variant string
	at      timetable.TimeValue
	count   int
}

// parseStationQuery reads the station path parameter and the time, variant,
// date and count query parameters. Without a variant, the date (default
// today) selects one; without a time, the current time is used
func (api *RestAPI) parseStationQuery(r *http.Request) (stationQuery, map[string][]string) {
	q := r.URL.Query()
	fieldErrors := map[string][]string{}

	station := utils.SanitizeInput(utils.ExtractIDFromParams(r, "station"))
	if err := utils.ValidateStationName(station); err != nil {
		fieldErrors["station"] = []string{err.Error()}
	}

	variant := q.Get("variant")
	if err := utils.ValidateVariant(variant); err != nil {
		fieldErrors["variant"] = []string{err.Error()}
	}

	date := q.Get("date")
	if err := utils.ValidateDate(date); err != nil {
		fieldErrors["date"] = []string{err.Error()}
	}

	at, hasTime, err := utils.ParseClockParam(q.Get("time"))
	if err != nil {
		fieldErrors["time"] = []string{err.Error()}
	}

	count, err := utils.ParseCount(q.Get("count"))
	if err != nil {
		fieldErrors["count"] = []string{err.Error()}
	}

	if len(fieldErrors) > 0 {
		return stationQuery{}, fieldErrors
	}

	now := api.Now()
	if variant == "" {
		day := now
		if date != "" {
			loc := api.Location
			if loc == nil {
				loc = time.UTC
			}
			day, _ = time.ParseInLocation("2006-01-02", date, loc)
		}
		variant = api.VariantFor(day)
	}
	if !hasTime {
		at = timetable.ClockOf(now)
	}

	return stationQuery{station: station, variant: variant, at: at, count: count}, nil
}

// resolveStation matches name against the timetable's stations ignoring case
func resolveStation(tt *timetable.Timetable, name string) (string, bool) {
	if tt.HasStation(name) {
		return name, true
	}
	for _, s := range tt.Stations {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}

func formatTimes(values []timetable.TimeValue) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Format()
	}
	return out
}

func (api *RestAPI) nextTrainsHandler(w http.ResponseWriter, r *http.Request) {
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

	upcoming, err := tt.NextDepartures(station, query.at, query.count)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	directions := make([]models.DirectionTimes, 0, len(tt.Directions))
	for _, d := range tt.Directions {
		directions = append(directions, models.DirectionTimes{Terminus: d, Times: formatTimes(upcoming[d])})
	}

	entry := models.NextTrainsEntry{
		Station:    station,
		Variant:    query.variant,
		After:      query.at.Format(),
		Directions: directions,
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, api.buildReferences(query.variant, station)))
}
