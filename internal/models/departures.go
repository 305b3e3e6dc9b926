package models

// DirectionTimes lists times at a station towards one terminus
type DirectionTimes struct {
	Terminus string   `json:"terminus"`
	Times    []string `json:"times"`
}

// NextTrainsEntry is the upcoming departures at a station
type NextTrainsEntry struct {
	Station    string           `json:"station"`
	Variant    string           `json:"variant"`
	After      string           `json:"after"`
	Directions []DirectionTimes `json:"directions"`
}

// StationScheduleEntry is the full day at a station for one variant
type StationScheduleEntry struct {
	Station    string           `json:"station"`
	Variant    string           `json:"variant"`
	Directions []DirectionTimes `json:"directions"`
}

// TimetableEntry is a whole variant. Timetable marshals to the published
// {station: {terminus: [times]}} form
type TimetableEntry struct {
	Variant    string      `json:"variant"`
	Stations   []string    `json:"stations"`
	Directions []string    `json:"directions"`
	Timetable  interface{} `json:"timetable"`
}
