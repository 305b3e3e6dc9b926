package gtfs

import (
	"context"
	"testing"
	"time"

	"github.com/jamespfennell/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrt6.timetable.org/internal/timetable"
)

func TestLegsToTerminus(t *testing.T) {
	static, err := LoadStatic(context.Background(), Config{Source: writeFeed(t)}, discardLogger())
	require.NoError(t, err)

	legs, err := LegsToTerminus(static, "MRT6", "Uttara South")
	require.NoError(t, err)
	assert.Equal(t, []timetable.JourneyLeg{
		{Station: "Uttara North", Duration: 0},
		{Station: "Uttara Center", Duration: 100},
		{Station: "Uttara South", Duration: 110},
	}, legs)

	legs, err = LegsToTerminus(static, "MRT6", "Uttara North")
	require.NoError(t, err)
	assert.Equal(t, []timetable.JourneyLeg{
		{Station: "Uttara South", Duration: 0},
		{Station: "Uttara Center", Duration: 110},
		{Station: "Uttara North", Duration: 100},
	}, legs)

	_, err = LegsToTerminus(static, "MRT6", "Uttara Center")
	assert.ErrorIs(t, err, ErrNoMatchingTrip)

	_, err = LegsToTerminus(static, "MRT5", "Uttara South")
	assert.ErrorIs(t, err, ErrNoMatchingTrip)
}

func TestLegsToTerminusOrdersBySequence(t *testing.T) {
	route := &gtfs.Route{Id: "R"}
	a, b, c := &gtfs.Stop{Id: "a", Name: "A"}, &gtfs.Stop{Id: "b"}, &gtfs.Stop{Id: "c", Name: "C"}
	static := &gtfs.Static{
		Trips: []gtfs.ScheduledTrip{{
			ID:    "t",
			Route: route,
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: c, StopSequence: 30, ArrivalTime: 10 * time.Minute, DepartureTime: 10 * time.Minute},
				{Stop: a, StopSequence: 10, ArrivalTime: 0, DepartureTime: 0},
				{Stop: b, StopSequence: 20, ArrivalTime: 4 * time.Minute, DepartureTime: 5 * time.Minute},
			},
		}},
	}

	legs, err := LegsToTerminus(static, "R", "C")
	require.NoError(t, err)
	assert.Equal(t, []timetable.JourneyLeg{
		{Station: "A", Duration: 0},
		{Station: "b", Duration: 240},
		{Station: "C", Duration: 300},
	}, legs)
}

func TestLegsToTerminusRejectsBackwardsTimes(t *testing.T) {
	route := &gtfs.Route{Id: "R"}
	static := &gtfs.Static{
		Trips: []gtfs.ScheduledTrip{{
			ID:    "t",
			Route: route,
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: &gtfs.Stop{Name: "A"}, StopSequence: 1, ArrivalTime: 5 * time.Minute, DepartureTime: 5 * time.Minute},
				{Stop: &gtfs.Stop{Name: "B"}, StopSequence: 2, ArrivalTime: 4 * time.Minute, DepartureTime: 4 * time.Minute},
			},
		}},
	}

	_, err := LegsToTerminus(static, "R", "B")
	assert.ErrorContains(t, err, "precedes departure")
}

func TestApplyToLine(t *testing.T) {
	static, err := LoadStatic(context.Background(), Config{Source: writeFeed(t)}, discardLogger())
	require.NoError(t, err)

	fixed := []timetable.JourneyLeg{
		{Station: "Uttara South", Duration: 0},
		{Station: "Uttara Center", Duration: 120},
		{Station: "Uttara North", Duration: 120},
	}
	line := timetable.Line{
		Name: "Feed Line",
		Directions: []timetable.Direction{
			{Terminus: "Uttara South"},
			{Terminus: "Uttara North", Legs: fixed},
		},
	}

	filled, err := ApplyToLine(line, static, "MRT6")
	require.NoError(t, err)
	require.NoError(t, filled.Validate())
	assert.Len(t, filled.Directions[0].Legs, 3)
	assert.Equal(t, fixed, filled.Directions[1].Legs)
	assert.Empty(t, line.Directions[0].Legs)

	line.Directions[0].Terminus = "Nowhere"
	_, err = ApplyToLine(line, static, "MRT6")
	assert.ErrorIs(t, err, ErrNoMatchingTrip)
}
