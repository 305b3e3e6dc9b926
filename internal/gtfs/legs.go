package gtfs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jamespfennell/gtfs"

	"mrt6.timetable.org/internal/timetable"
)

// ErrNoMatchingTrip is returned when no trip of the route ends at the terminus
var ErrNoMatchingTrip = errors.New("no trip of the route ends at the terminus")

// LegsToTerminus derives the journey legs towards terminus from the longest
// trip of the route that ends there. A leg is the running time from the
// previous stop's departure to this stop's arrival, so dwell recorded in the
// feed is not counted twice. The first leg is zero
func LegsToTerminus(static *gtfs.Static, routeID, terminus string) ([]timetable.JourneyLeg, error) {
	trip := longestTripTo(static, routeID, terminus)
	if trip == nil {
		return nil, fmt.Errorf("route %s towards %s: %w", routeID, terminus, ErrNoMatchingTrip)
	}

	stopTimes := sortedStopTimes(trip)
	legs := make([]timetable.JourneyLeg, len(stopTimes))
	for i, st := range stopTimes {
		legs[i].Station = stopName(st)
		if i == 0 {
			continue
		}
		running := st.ArrivalTime - stopTimes[i-1].DepartureTime
		if running < 0 {
			return nil, fmt.Errorf("trip %s: arrival at %s precedes departure from %s", trip.ID, legs[i].Station, legs[i-1].Station)
		}
		legs[i].Duration = int(running.Seconds())
	}
	return legs, nil
}

// ApplyToLine fills in the legs of every direction that has none
func ApplyToLine(line timetable.Line, static *gtfs.Static, routeID string) (timetable.Line, error) {
	out := timetable.Line{Name: line.Name, Directions: make([]timetable.Direction, len(line.Directions))}
	for i, d := range line.Directions {
		out.Directions[i] = d
		if len(d.Legs) > 0 {
			continue
		}
		legs, err := LegsToTerminus(static, routeID, d.Terminus)
		if err != nil {
			return timetable.Line{}, err
		}
		out.Directions[i].Legs = legs
	}
	return out, nil
}

func longestTripTo(static *gtfs.Static, routeID, terminus string) *gtfs.ScheduledTrip {
	var best *gtfs.ScheduledTrip
	for i := range static.Trips {
		trip := &static.Trips[i]
		if trip.Route == nil || trip.Route.Id != routeID || len(trip.StopTimes) < 2 {
			continue
		}
		stopTimes := sortedStopTimes(trip)
		if stopName(stopTimes[len(stopTimes)-1]) != terminus {
			continue
		}
		if best == nil || len(trip.StopTimes) > len(best.StopTimes) {
			best = trip
		}
	}
	return best
}

func sortedStopTimes(trip *gtfs.ScheduledTrip) []gtfs.ScheduledStopTime {
	stopTimes := make([]gtfs.ScheduledStopTime, len(trip.StopTimes))
	copy(stopTimes, trip.StopTimes)
	sort.SliceStable(stopTimes, func(i, j int) bool {
		return stopTimes[i].StopSequence < stopTimes[j].StopSequence
	})
	return stopTimes
}

func stopName(st gtfs.ScheduledStopTime) string {
	if st.Stop == nil {
		return ""
	}
	if st.Stop.Name != "" {
		return st.Stop.Name
	}
	return st.Stop.Id
}
