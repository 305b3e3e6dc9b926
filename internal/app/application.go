package app

import (
	"log/slog"
	"time"

	"mrt6.timetable.org/internal/appconf"
	"mrt6.timetable.org/internal/config"
	"mrt6.timetable.org/internal/timetable"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware
type Application struct {
	Config     appconf.Config
	Logger     *slog.Logger
	LineConfig *config.LineConfig
	Line       timetable.Line
	Policy     timetable.WaitPolicy
	Location   *time.Location
	Holidays   []time.Time
	Schedules  *ScheduleStore

	// Clock overrides time.Now, for tests
	Clock func() time.Time
}

// Now is the current time in the line's time zone
func (app *Application) Now() time.Time {
	now := time.Now
	if app.Clock != nil {
		now = app.Clock
	}
	if app.Location == nil {
		return now()
	}
	return now().In(app.Location)
}

// VariantFor is the schedule variant in force on the day of t, taken in the
// line's time zone
func (app *Application) VariantFor(t time.Time) string {
	if app.Location != nil {
		t = t.In(app.Location)
	}
	return timetable.SelectVariant(t, app.Holidays)
}

// VariantName returns the display name of a variant, or its key when unnamed
func (app *Application) VariantName(key string) string {
	if app.LineConfig != nil {
		if v, ok := app.LineConfig.Variant(key); ok && v.Name != "" {
			return v.Name
		}
	}
	return key
}
