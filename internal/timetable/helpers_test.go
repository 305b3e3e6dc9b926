package timetable

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testLine is a three-station line: Origin -> B -> Terminus and back
func testLine() Line {
	return Line{
		Name: "Test Line",
		Directions: []Direction{
			{
				Terminus: "Terminus",
				Legs: []JourneyLeg{
					{Station: "Origin", Duration: 0},
					{Station: "B", Duration: 100},
					{Station: "Terminus", Duration: 200},
				},
			},
			{
				Terminus: "Origin",
				Legs: []JourneyLeg{
					{Station: "Terminus", Duration: 0},
					{Station: "B", Duration: 200},
					{Station: "Origin", Duration: 100},
				},
			},
		},
	}
}

// flatPolicy charges the same dwell everywhere
func flatPolicy(seconds int) WaitPolicy {
	return WaitPolicy{Categories: StandardWaitCategories, Default: Seconds(seconds)}
}

func fixedSlot(t *testing.T, start, end string, headway int) Slot {
	t.Helper()
	return Slot{
		Start:   MustParseTime(start),
		End:     MustParseTime(end),
		Headway: FixedHeadway(headway),
		Period:  PeriodCustom,
		Source:  start + " | " + end,
	}
}

func formatAll(values []TimeValue) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Format()
	}
	return out
}
