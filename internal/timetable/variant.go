package timetable

import "time"

const (
	VariantWeekdays = "weekdays"
	VariantFriday   = "friday"
	VariantSaturday = "saturday"
)

// SelectVariant picks the schedule variant in force on date. Public holidays run
// the Saturday schedule
func SelectVariant(date time.Time, holidays []time.Time) string {
	y, m, d := date.Date()
	for _, h := range holidays {
		hy, hm, hd := h.Date()
		if hy == y && hm == m && hd == d {
			return VariantSaturday
		}
	}

	switch date.Weekday() {
	case time.Friday:
		return VariantFriday
	case time.Saturday:
		return VariantSaturday
	default:
		return VariantWeekdays
	}
}

// ClockOf returns the wall-clock time of t as a TimeValue
func ClockOf(t time.Time) TimeValue {
	return NewTimeValue(t.Hour(), t.Minute(), t.Second())
}
