package timetable

import "fmt"

// JourneyLeg is the travel time to Station from the station before it. The first
// leg of a direction is its origin; its duration is always treated as zero
type JourneyLeg struct {
	Station  string
	Duration int
}

// OffsetTable holds the cumulative seconds from the origin to each station of
// one direction under one period
type OffsetTable struct {
	Period   Period
	Stations []string
	offsets  map[string]int
}

// Offset returns the cumulative seconds to station
func (t OffsetTable) Offset(station string) (int, bool) {
	v, ok := t.offsets[station]
	return v, ok
}

// Total is the offset of the terminus
func (t OffsetTable) Total() int {
	if len(t.Stations) == 0 {
		return 0
	}
	return t.offsets[t.Stations[len(t.Stations)-1]]
}

// ComputeOffsets walks legs in order, accumulating journey time and charging
// dwell at every intermediate station. A station's own dwell only delays the
// stations after it; the origin and the terminus are never charged
func ComputeOffsets(legs []JourneyLeg, period Period, policy WaitPolicy) (OffsetTable, error) {
	table := OffsetTable{
		Period:   period,
		Stations: make([]string, 0, len(legs)),
		offsets:  make(map[string]int, len(legs)),
	}

	cumulative := 0
	last := len(legs) - 1
	for i, leg := range legs {
		duration := leg.Duration
		if i == 0 {
			duration = 0
		}
		if duration < 0 {
			return OffsetTable{}, &InvariantViolation{Station: leg.Station, Reason: fmt.Sprintf("negative journey time %d", duration)}
		}
		if _, dup := table.offsets[leg.Station]; dup {
			return OffsetTable{}, &InvariantViolation{Station: leg.Station, Reason: "station appears twice"}
		}

		cumulative += duration
		table.Stations = append(table.Stations, leg.Station)
		table.offsets[leg.Station] = cumulative

		if i > 0 && i < last {
			dwell := policy.Resolve(leg.Station, period)
			if dwell < 0 {
				return OffsetTable{}, &InvariantViolation{Station: leg.Station, Reason: fmt.Sprintf("negative dwell %d under %s", dwell, period)}
			}
			cumulative += dwell
		}
	}

	if err := table.checkMonotonic(); err != nil {
		return OffsetTable{}, err
	}
	return table, nil
}

func (t OffsetTable) checkMonotonic() error {
	prev := 0
	for _, station := range t.Stations {
		v := t.offsets[station]
		if v < prev {
			return &InvariantViolation{Station: station, Reason: fmt.Sprintf("offset %d below previous %d", v, prev)}
		}
		prev = v
	}
	return nil
}
