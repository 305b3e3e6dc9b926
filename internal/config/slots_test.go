package config

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/timetable"
)

var testMarkers = map[string]string{
	"MOTIJHEEL_SLOTS": "Motijheel",
	"UTTARA_SLOTS":    "Uttara North",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const slotDoc = `# Timetable

Intro text with a | pipe is ignored before the first section.

## Weekdays (Sun-Thu)

` + "```" + `
MOTIJHEEL_SLOTS:
# opening
7:10 AM | 7:30 AM | 10:00
7:30 AM | 8:00 AM | rush

UTTARA_SLOTS:
07:30 | 08:00 | offpeak
` + "```" + `

## friday

` + "```" + `
MOTIJHEEL_SLOTS:
3:00 PM | 4:00 PM | 20
UTTARA_SLOTS:
3:20 PM | 4:20 PM | 20
` + "```" + `
`

func TestParseSlotDocument(t *testing.T) {
	variants := ParseSlotDocument(slotDoc, []string{"weekdays", "friday"}, testMarkers, timetable.StandardHeadways, discardLogger())
	require.Len(t, variants, 2)

	weekdays := variants[0]
	assert.Equal(t, "weekdays", weekdays.Variant)

	toMotijheel := weekdays.Slots["Motijheel"]
	require.Len(t, toMotijheel, 2)
	assert.Equal(t, timetable.MustParseTime("07:10"), toMotijheel[0].Start)
	assert.Equal(t, timetable.MustParseTime("07:30"), toMotijheel[0].End)
	assert.Equal(t, timetable.FixedHeadway(600), toMotijheel[0].Headway)
	assert.Equal(t, timetable.PeriodCustom, toMotijheel[0].Period)
	assert.Equal(t, "7:10 AM | 7:30 AM | 10:00", toMotijheel[0].Source)

	assert.True(t, toMotijheel[1].Headway.IsAlternating())
	assert.Equal(t, timetable.PeriodRush, toMotijheel[1].Period)

	toUttara := weekdays.Slots["Uttara North"]
	require.Len(t, toUttara, 1)
	assert.Equal(t, timetable.FixedHeadway(480), toUttara[0].Headway)
	assert.Equal(t, timetable.PeriodOffPeak, toUttara[0].Period)

	friday := variants[1]
	assert.Equal(t, "friday", friday.Variant)
	require.Len(t, friday.Slots["Motijheel"], 1)
	assert.Equal(t, timetable.MustParseTime("15:00"), friday.Slots["Motijheel"][0].Start)
	assert.Equal(t, timetable.FixedHeadway(1200), friday.Slots["Motijheel"][0].Headway)
}

func TestParseSlotDocumentMissingSection(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelDebug)

	variants := ParseSlotDocument(slotDoc, []string{"saturday"}, testMarkers, timetable.StandardHeadways, logger)
	require.Len(t, variants, 1)
	assert.Equal(t, "saturday", variants[0].Variant)
	assert.Empty(t, variants[0].Slots)
	assert.Contains(t, buf.String(), "schedule section not found")
}

func TestParseSlotDocumentMissingBlock(t *testing.T) {
	doc := "## weekdays\nMOTIJHEEL_SLOTS:\n7:10 | 7:30 | 10\n"

	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelDebug)

	variants := ParseSlotDocument(doc, []string{"weekdays"}, testMarkers, timetable.StandardHeadways, logger)
	require.Len(t, variants, 1)
	assert.Len(t, variants[0].Slots["Motijheel"], 1)
	assert.Empty(t, variants[0].Slots["Uttara North"])
	assert.Contains(t, buf.String(), "slot block not found")
}

func TestParseSlotDocumentSkipsBadLines(t *testing.T) {
	doc := `## weekdays
MOTIJHEEL_SLOTS:
7:10 | 7:30 | 10
7:30 | 8:00
25:00 | 26:00 | 10
8:00 | 9:00 | whenever
9:00 | 10:00 | 0
no pipes here
10:00 | 11:00 | offpeak
UTTARA_SLOTS:
7:30 | 8:00 | 10
`
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelDebug)

	variants := ParseSlotDocument(doc, []string{"weekdays"}, testMarkers, timetable.StandardHeadways, logger)
	slots := variants[0].Slots["Motijheel"]
	require.Len(t, slots, 2)
	assert.Equal(t, timetable.MustParseTime("07:10"), slots[0].Start)
	assert.Equal(t, timetable.MustParseTime("10:00"), slots[1].Start)
	assert.Equal(t, 4, bytes.Count(buf.Bytes(), []byte("skipping invalid slot line")))
}

func TestParseSlotLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		start   string
		end     string
		period  timetable.Period
		wantErr bool
	}{
		{name: "twelve hour", line: "9:40 PM | 9:40 PM | 10:00", start: "21:40", end: "21:40", period: timetable.PeriodCustom},
		{name: "twenty four hour", line: "14:28|20:40|rush", start: "14:28", end: "20:40", period: timetable.PeriodRush},
		{name: "off-peak spelling", line: "11:36 | 14:28 | off-peak", start: "11:36", end: "14:28", period: timetable.PeriodOffPeak},
		{name: "too many fields", line: "1 | 2 | 3 | 4", wantErr: true},
		{name: "bad start", line: "noon | 14:00 | 10", wantErr: true},
		{name: "bad end", line: "12:00 | later | 10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := ParseSlotLine(tt.line, timetable.StandardHeadways)
			if tt.wantErr {
				assert.ErrorIs(t, err, timetable.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, timetable.MustParseTime(tt.start), slot.Start)
			assert.Equal(t, timetable.MustParseTime(tt.end), slot.End)
			assert.Equal(t, tt.period, slot.Period)
		})
	}
}

func TestShippedSlotDocumentGenerates(t *testing.T) {
	cfg, err := LoadLineConfig("../../data/mrt6.yml")
	require.NoError(t, err)
	line, policy, defaults, err := cfg.Build()
	require.NoError(t, err)

	variants, err := LoadSlotDocument("../../data/timetable-config.md", cfg, defaults, discardLogger())
	require.NoError(t, err)
	require.Len(t, variants, 3)

	for _, v := range variants {
		tt, _, err := timetable.Assemble(line, v, policy, discardLogger())
		require.NoError(t, err, v.Variant)
		assert.Positive(t, tt.TrainCount("Motijheel"), v.Variant)
		assert.Positive(t, tt.TrainCount("Uttara North"), v.Variant)
	}

	weekdays := variants[0]
	first := weekdays.Slots["Motijheel"][0]
	assert.Equal(t, timetable.MustParseTime("07:10"), first.Start)
}
