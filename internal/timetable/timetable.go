package timetable

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Timetable maps station -> direction -> arrival times for one schedule variant.
// Stations keep the line's canonical order; directions are named by terminus
type Timetable struct {
	Variant    string
	Stations   []string
	Directions []string
	times      map[string]map[string][]TimeValue
}

// NewTimetable creates an empty timetable over the given stations and directions
func NewTimetable(variant string, stations, directions []string) *Timetable {
	tt := &Timetable{
		Variant:    variant,
		Stations:   append([]string(nil), stations...),
		Directions: append([]string(nil), directions...),
		times:      make(map[string]map[string][]TimeValue, len(stations)),
	}
	for _, station := range stations {
		tt.times[station] = make(map[string][]TimeValue, len(directions))
	}
	return tt
}

// SetTimes replaces the times at station towards direction
func (t *Timetable) SetTimes(station, direction string, times []TimeValue) {
	byDirection, ok := t.times[station]
	if !ok {
		byDirection = make(map[string][]TimeValue)
		t.times[station] = byDirection
		t.Stations = append(t.Stations, station)
	}
	if !containsString(t.Directions, direction) {
		t.Directions = append(t.Directions, direction)
	}
	byDirection[direction] = times
}

// Times returns the times at station towards direction, in elapsed order
func (t *Timetable) Times(station, direction string) []TimeValue {
	return t.times[station][direction]
}

// HasStation reports whether the station appears in the timetable
func (t *Timetable) HasStation(station string) bool {
	_, ok := t.times[station]
	return ok
}

// TrainCount is the number of trains leaving the origin of direction
func (t *Timetable) TrainCount(direction string) int {
	most := 0
	for station := range t.times {
		if n := len(t.ClockTimes(station, direction)); n > most {
			most = n
		}
	}
	return most
}

// ClockTimes returns the times at station folded onto a 24-hour clock, ascending
// and without repeats. A train at 24:00 and one at 00:00 collapse into one entry
func (t *Timetable) ClockTimes(station, direction string) []TimeValue {
	src := t.times[station][direction]
	out := make([]TimeValue, len(src))
	for i, v := range src {
		out[i] = v.TimeOfDay()
	}
	return sortUnique(out)
}

// NextDepartures returns, per direction, up to n times at station strictly after
// at (compared on the 24-hour clock). Nothing wraps past midnight
func (t *Timetable) NextDepartures(station string, at TimeValue, n int) (map[string][]TimeValue, error) {
	if !t.HasStation(station) {
		return nil, fmt.Errorf("unknown station %q", station)
	}
	at = at.TimeOfDay()
	result := make(map[string][]TimeValue, len(t.Directions))
	for _, direction := range t.Directions {
		upcoming := []TimeValue{}
		for _, v := range t.ClockTimes(station, direction) {
			if len(upcoming) == n {
				break
			}
			if v > at {
				upcoming = append(upcoming, v)
			}
		}
		result[direction] = upcoming
	}
	return result, nil
}

// MarshalJSON writes {station: {direction: ["HH:MM:SS", ...]}} with stations in
// line order and times sorted lexically
func (t *Timetable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, station := range t.Stations {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, station); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, direction := range t.Directions {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, direction); err != nil {
				return nil, err
			}
			clock := t.ClockTimes(station, direction)
			formatted := make([]string, len(clock))
			for k, v := range clock {
				formatted[k] = v.Format()
			}
			b, err := json.Marshal(formatted)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// UnmarshalJSON reads the MarshalJSON form, keeping station and direction order
// as they appear in the document
func (t *Timetable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	parsed := NewTimetable(t.Variant, nil, nil)
	for dec.More() {
		station, err := readKey(dec)
		if err != nil {
			return err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		if !parsed.HasStation(station) {
			parsed.Stations = append(parsed.Stations, station)
			parsed.times[station] = make(map[string][]TimeValue)
		}
		for dec.More() {
			direction, err := readKey(dec)
			if err != nil {
				return err
			}
			var raw []string
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("station %q towards %q: %w", station, direction, err)
			}
			times := make([]TimeValue, 0, len(raw))
			for _, s := range raw {
				v, err := ParseTime(s)
				if err != nil {
					return fmt.Errorf("station %q towards %q: %w", station, direction, err)
				}
				times = append(times, v)
			}
			parsed.SetTimes(station, direction, times)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*t = *parsed
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("timetable: expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("timetable: expected key, got %v", tok)
	}
	return key, nil
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
