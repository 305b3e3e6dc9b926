package timetable

// Expand lists the departures of one slot. The window is half-open: start is
// included and end is not, so abutting slots [A,B) and [B,C) never both emit B.
// A window whose end equals its start yields exactly one departure at start; an
// end at or before start is taken to fall on the following day
func Expand(start, end TimeValue, spec HeadwaySpec) ([]TimeValue, error) {
	if start == end {
		return []TimeValue{start}, nil
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	for end <= start {
		end = end.NextDay()
	}

	seq := spec.Sequence()
	var departures []TimeValue
	for current := start; current < end; current = current.Add(seq.Next()) {
		departures = append(departures, current)
	}
	return departures, nil
}
