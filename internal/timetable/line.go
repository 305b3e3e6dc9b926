package timetable

import (
	"errors"
	"fmt"
)

// Direction is one way along the line, named after its terminus
type Direction struct {
	Terminus string
	Legs     []JourneyLeg
}

// Origin is the first station of the direction
func (d Direction) Origin() string {
	if len(d.Legs) == 0 {
		return ""
	}
	return d.Legs[0].Station
}

// Stations lists the direction's stations in travel order
func (d Direction) Stations() []string {
	stations := make([]string, len(d.Legs))
	for i, leg := range d.Legs {
		stations[i] = leg.Station
	}
	return stations
}

// Line is a two-direction service over one ordered station sequence
type Line struct {
	Name       string
	Directions []Direction
}

// Stations returns the canonical station order, taken from the first direction
func (l Line) Stations() []string {
	if len(l.Directions) == 0 {
		return nil
	}
	return l.Directions[0].Stations()
}

// Direction finds a direction by terminus name
func (l Line) Direction(terminus string) (Direction, bool) {
	for _, d := range l.Directions {
		if d.Terminus == terminus {
			return d, true
		}
	}
	return Direction{}, false
}

// Validate checks that the line has two directions over the same stations and
// that each direction ends at its terminus
func (l Line) Validate() error {
	if len(l.Directions) != 2 {
		return fmt.Errorf("line %q: expected 2 directions, got %d", l.Name, len(l.Directions))
	}

	var reference map[string]bool
	for _, d := range l.Directions {
		if d.Terminus == "" {
			return errors.New("direction without terminus")
		}
		if len(d.Legs) == 0 {
			return &InvariantViolation{Direction: d.Terminus, Reason: "no journey legs"}
		}
		if last := d.Legs[len(d.Legs)-1].Station; last != d.Terminus {
			return &InvariantViolation{Direction: d.Terminus, Station: last, Reason: "last leg does not reach the terminus"}
		}

		seen := make(map[string]bool, len(d.Legs))
		for i, leg := range d.Legs {
			if seen[leg.Station] {
				return &InvariantViolation{Direction: d.Terminus, Station: leg.Station, Reason: "station appears twice"}
			}
			if i > 0 && leg.Duration < 0 {
				return &InvariantViolation{Direction: d.Terminus, Station: leg.Station, Reason: fmt.Sprintf("negative journey time %d", leg.Duration)}
			}
			seen[leg.Station] = true
		}

		if reference == nil {
			reference = seen
			continue
		}
		if len(seen) != len(reference) {
			return fmt.Errorf("line %q: directions serve different station sets", l.Name)
		}
		for station := range seen {
			if !reference[station] {
				return &InvariantViolation{Direction: d.Terminus, Station: station, Reason: "station not served in the other direction"}
			}
		}
	}
	return nil
}
