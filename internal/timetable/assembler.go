package timetable

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"mrt6.timetable.org/internal/logging"
)

// Slot is one authored service window with a single spacing rule
type Slot struct {
	Start   TimeValue
	End     TimeValue
	Headway HeadwaySpec
	Period  Period
	// Source is the authored line the slot came from, kept for diagnostics
	Source string
}

// Train is a departure from a direction's origin
type Train struct {
	Departure TimeValue
	Period    Period
}

// VariantSlots holds the slots of one schedule variant, keyed by direction terminus
type VariantSlots struct {
	Variant string
	Slots   map[string][]Slot
}

// DirectionColumn is the assembled result for one direction
type DirectionColumn struct {
	Terminus   string
	Departures []Train
	Offsets    map[Period]OffsetTable
	Arrivals   map[string][]TimeValue
}

// MergeDepartures expands every slot and merges the results into one ascending
// departure list. When several slots produce the same instant, the period of the
// slot listed first is kept. Slots that cannot be expanded are logged and skipped
func MergeDepartures(slots []Slot, logger *slog.Logger) []Train {
	periods := make(map[TimeValue]Period)
	for i, slot := range slots {
		instants, err := Expand(slot.Start, slot.End, slot.Headway)
		if err != nil {
			logging.LogWarning(logger, "skipping slot", err,
				slog.Int("slot", i+1),
				slog.String("source", slot.Source),
				slog.String("component", "slot_expander"))
			continue
		}
		for _, instant := range instants {
			if _, seen := periods[instant]; !seen {
				periods[instant] = slot.Period
			}
		}
	}

	trains := make([]Train, 0, len(periods))
	for instant, period := range periods {
		trains = append(trains, Train{Departure: instant, Period: period})
	}
	sort.Slice(trains, func(i, j int) bool {
		return trains[i].Departure < trains[j].Departure
	})
	return trains
}

// AssembleDirection computes every station's arrival times for one direction.
// Offset tables are built once per period present among the departures. Arrival
// lists are sorted and de-duplicated explicitly: with mixed periods a later
// departure can reach a downstream station before an earlier one
func AssembleDirection(direction Direction, slots []Slot, policy WaitPolicy, logger *slog.Logger) (DirectionColumn, error) {
	column := DirectionColumn{
		Terminus:   direction.Terminus,
		Departures: MergeDepartures(slots, logger),
		Offsets:    make(map[Period]OffsetTable),
		Arrivals:   make(map[string][]TimeValue, len(direction.Legs)),
	}

	for _, train := range column.Departures {
		if _, ok := column.Offsets[train.Period]; ok {
			continue
		}
		table, err := ComputeOffsets(direction.Legs, train.Period, policy)
		if err != nil {
			var iv *InvariantViolation
			if errors.As(err, &iv) {
				iv.Direction = direction.Terminus
			}
			return DirectionColumn{}, err
		}
		column.Offsets[train.Period] = table
	}

	for _, station := range direction.Stations() {
		arrivals := make([]TimeValue, 0, len(column.Departures))
		for _, train := range column.Departures {
			offset, ok := column.Offsets[train.Period].Offset(station)
			if !ok {
				return DirectionColumn{}, &InvariantViolation{Direction: direction.Terminus, Station: station, Reason: "no offset computed"}
			}
			arrivals = append(arrivals, train.Departure.Add(offset))
		}
		column.Arrivals[station] = sortUnique(arrivals)
	}

	return column, nil
}

// Assemble builds the full timetable of one schedule variant. Directions are
// assembled independently; a direction without slots is a ConfigurationMissing
func Assemble(line Line, variant VariantSlots, policy WaitPolicy, logger *slog.Logger) (*Timetable, []DirectionColumn, error) {
	termini := make([]string, len(line.Directions))
	for i, d := range line.Directions {
		termini[i] = d.Terminus
	}
	tt := NewTimetable(variant.Variant, line.Stations(), termini)

	columns := make([]DirectionColumn, 0, len(line.Directions))
	for _, direction := range line.Directions {
		slots := variant.Slots[direction.Terminus]
		if len(slots) == 0 {
			return nil, nil, &ConfigurationMissing{Variant: variant.Variant, Direction: direction.Terminus}
		}

		column, err := AssembleDirection(direction, slots, policy, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("variant %q: %w", variant.Variant, err)
		}
		if len(column.Departures) == 0 {
			return nil, nil, &ConfigurationMissing{Variant: variant.Variant, Direction: direction.Terminus}
		}

		for station, arrivals := range column.Arrivals {
			tt.SetTimes(station, direction.Terminus, arrivals)
		}
		columns = append(columns, column)

		logging.LogOperation(logger, "direction assembled",
			slog.String("variant", variant.Variant),
			slog.String("direction", direction.Terminus),
			slog.Int("slots", len(slots)),
			slog.Int("trains", len(column.Departures)),
			slog.String("component", "schedule_assembler"))
	}

	return tt, columns, nil
}

func sortUnique(values []TimeValue) []TimeValue {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	out := values[:0]
	for _, v := range values {
		if len(out) > 0 && v == out[len(out)-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}
