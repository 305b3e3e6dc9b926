package timetable

import "strings"

// Period classifies a slot by how its headway was declared. It is only ever used
// as a lookup key for dwell-time overrides
type Period string

const (
	PeriodRush    Period = "rush"
	PeriodOffPeak Period = "offpeak"
	PeriodCustom  Period = "custom"
)

// ParsePeriod normalises a period label. Unknown labels are accepted as-is so
// configurations can introduce their own classifications
func ParsePeriod(label string) Period {
	switch l := strings.ToLower(strings.TrimSpace(label)); l {
	case "off-peak", "offpeak", "off peak":
		return PeriodOffPeak
	default:
		return Period(l)
	}
}

func (p Period) String() string {
	return string(p)
}
