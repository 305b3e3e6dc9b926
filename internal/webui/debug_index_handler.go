package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"

	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/timetable"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

// directionOffsets is the offset table of one direction under each period
type directionOffsets struct {
	Terminus string
	Periods  map[timetable.Period]map[string]string
}

// variantSummary describes one loaded timetable
type variantSummary struct {
	Variant     string
	Name        string
	Trains      map[string]int
	LastUpdated time.Time
}

func (webUI *WebUI) writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{Title: title, Pre: spew.Sdump(data)})
	if err != nil {
		logging.LogError(webUI.Logger, "failed to render debug page", err,
			slog.String("component", "webui"))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) offsets() []directionOffsets {
	periods := []timetable.Period{timetable.PeriodRush, timetable.PeriodOffPeak, timetable.PeriodCustom}
	out := make([]directionOffsets, 0, len(webUI.Line.Directions))
	for _, d := range webUI.Line.Directions {
		entry := directionOffsets{Terminus: d.Terminus, Periods: map[timetable.Period]map[string]string{}}
		for _, p := range periods {
			table, err := timetable.ComputeOffsets(d.Legs, p, webUI.Policy)
			if err != nil {
				entry.Periods[p] = map[string]string{"error": err.Error()}
				continue
			}
			formatted := make(map[string]string, len(table.Stations))
			for _, s := range table.Stations {
				offset, _ := table.Offset(s)
				formatted[s] = timetable.TimeValue(offset).Format()
			}
			entry.Periods[p] = formatted
		}
		out = append(out, entry)
	}
	return out
}

func (webUI *WebUI) variants() []variantSummary {
	keys := webUI.Schedules.Variants()
	out := make([]variantSummary, 0, len(keys))
	for _, key := range keys {
		tt, ok := webUI.Schedules.Get(key)
		if !ok {
			continue
		}
		trains := make(map[string]int, len(tt.Directions))
		for _, d := range tt.Directions {
			trains[d] = tt.TrainCount(d)
		}
		out = append(out, variantSummary{
			Variant:     key,
			Name:        webUI.VariantName(key),
			Trains:      trains,
			LastUpdated: webUI.Schedules.LastUpdated(),
		})
	}
	return out
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "line":
		data = webUI.Line
		title = "Line - Stations and Journey Legs"
	case "offsets":
		data = webUI.offsets()
		title = "Line - Cumulative Offsets by Period"
	case "variants":
		data = webUI.variants()
		title = "Timetables - Loaded Variants"
	case "policy":
		data = webUI.Policy
		title = "Line - Dwell Policy"
	default:
		data = map[string]string{
			"error": "Please use one of the following: line, offsets, variants, policy.",
		}
		title = "Choose a data type"
	}

	webUI.writeDebugData(w, title, data)
}
