package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrt6.timetable.org/internal/timetable"
)

func TestValidateStationName(t *testing.T) {
	tests := []struct {
		name    string
		station string
		errMsg  string
	}{
		{name: "simple", station: "Farmgate"},
		{name: "with digits and space", station: "Mirpur 11"},
		{name: "with hyphen", station: "Uttara-North"},
		{name: "empty", station: "", errMsg: "station cannot be empty"},
		{name: "too long", station: strings.Repeat("a", 101), errMsg: "station too long (max 100 characters)"},
		{name: "script tag", station: "Farmgate<script>", errMsg: "station contains invalid characters"},
		{name: "sql injection", station: "x'; DROP TABLE departures; --", errMsg: "station contains invalid characters"},
		{name: "path traversal", station: "../../etc/passwd", errMsg: "station contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStationName(tt.station)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}

func TestValidateVariant(t *testing.T) {
	assert.NoError(t, ValidateVariant(""))
	assert.NoError(t, ValidateVariant("weekdays"))
	assert.NoError(t, ValidateVariant("eid-special"))
	assert.Error(t, ValidateVariant("Weekdays"))
	assert.Error(t, ValidateVariant("week days"))
	assert.Error(t, ValidateVariant(strings.Repeat("a", 51)))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate(""))
	assert.NoError(t, ValidateDate("2026-10-16"))
	assert.EqualError(t, ValidateDate("16/10/2026"), "invalid date format, use YYYY-MM-DD")
	assert.Error(t, ValidateDate("2026-13-01"))
}

func TestParseClockParam(t *testing.T) {
	v, ok, err := ParseClockParam("")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, v)

	v, ok, err = ParseClockParam("08:15")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, timetable.NewTimeValue(8, 15, 0), v)

	v, ok, err = ParseClockParam("8:15 PM")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, timetable.NewTimeValue(20, 15, 0), v)

	_, _, err = ParseClockParam("25:00")
	assert.EqualError(t, err, "invalid time, use HH:MM or HH:MM:SS")
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: DefaultDepartureCount},
		{in: "1", want: 1},
		{in: "20", want: 20},
		{in: "0", wantErr: true},
		{in: "21", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "three", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Farmgate", SanitizeInput("  <b>Farmgate</b> "))
	assert.Equal(t, "Motijheel", SanitizeInput("Motijheel"))
}
