// Package config loads the line description (YAML) and the human-edited slot
// document (Markdown) that drive timetable generation.
//
// The line file names the stations, the journey time of every leg in both
// directions, the dwell policy, the standard headways and the schedule variants.
// The slot document has one "## <variant>" section per variant; each section
// lists service windows per direction as "START | END | HEADWAY" lines under a
// direction marker such as "MOTIJHEEL_SLOTS:".
package config
