package models

import "time"

// CurrentTimeModel Current time specific model
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	Timezone     string `json:"timezone"`
	Variant      string `json:"variant"`
}

// CurrentTimeData Combined data structure for current time endpoint
type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

// NewCurrentTimeData reports t in the line's time zone along with the
// schedule variant in force on that day
func NewCurrentTimeData(t time.Time, variant string) CurrentTimeData {
	return CurrentTimeData{
		Entry: CurrentTimeModel{
			ReadableTime: t.Format(time.RFC3339),
			Time:         t.UnixNano() / int64(time.Millisecond),
			Timezone:     t.Location().String(),
			Variant:      variant,
		},
		References: NewEmptyReferences(),
	}
}
