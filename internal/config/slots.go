package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/timetable"
)

var (
	sectionHeader = regexp.MustCompile(`^##\s+([A-Za-z0-9_-]+)`)
	markerLine    = regexp.MustCompile(`^([A-Za-z_]+_SLOTS)\s*:(.*)$`)
)

// SlotDocument is the parsed slot file before variant selection
type SlotDocument struct {
	sections map[string]map[string][]string
}

// LoadSlotDocument reads the slot document and parses every configured variant
func LoadSlotDocument(path string, cfg *LineConfig, defaults timetable.HeadwayDefaults, logger *slog.Logger) ([]timetable.VariantSlots, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading slot document: %w", err)
	}
	return ParseSlotDocument(string(data), cfg.VariantKeys(), cfg.SlotMarkers(), defaults, logger), nil
}

// ParseSlotDocument extracts the slots of each variant, in the order given.
// Variants without a section, and directions without a block, come back with
// no slots so that generation reports them as missing configuration.
// Malformed lines are logged and dropped
func ParseSlotDocument(text string, variants []string, markers map[string]string, defaults timetable.HeadwayDefaults, logger *slog.Logger) []timetable.VariantSlots {
	doc := splitSections(text, markers)

	result := make([]timetable.VariantSlots, 0, len(variants))
	for _, variant := range variants {
		vs := timetable.VariantSlots{Variant: variant, Slots: make(map[string][]timetable.Slot)}

		blocks, ok := doc.section(variant)
		if !ok {
			logging.LogWarning(logger, "schedule section not found", nil,
				slog.String("variant", variant),
				slog.String("component", "slot_parser"))
			result = append(result, vs)
			continue
		}

		for marker, terminus := range markers {
			lines, found := blocks[marker]
			if !found {
				logging.LogWarning(logger, "slot block not found", nil,
					slog.String("variant", variant),
					slog.String("marker", marker),
					slog.String("component", "slot_parser"))
				continue
			}
			vs.Slots[terminus] = parseSlotLines(lines, variant, terminus, defaults, logger)
		}
		result = append(result, vs)
	}
	return result
}

func (d SlotDocument) section(variant string) (map[string][]string, bool) {
	blocks, ok := d.sections[strings.ToLower(variant)]
	return blocks, ok
}

// splitSections groups lines by "## <name>" header and then by direction marker.
// The section name is the first word of the header, lower-cased
func splitSections(text string, markers map[string]string) SlotDocument {
	doc := SlotDocument{sections: make(map[string]map[string][]string)}

	var (
		blocks map[string][]string
		marker string
	)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			name := strings.ToLower(m[1])
			blocks = make(map[string][]string)
			if _, dup := doc.sections[name]; !dup {
				doc.sections[name] = blocks
			}
			marker = ""
			continue
		}
		if blocks == nil {
			continue
		}

		if m := markerLine.FindStringSubmatch(line); m != nil {
			candidate := strings.ToUpper(m[1])
			if _, known := markers[candidate]; known {
				marker = candidate
				if _, ok := blocks[marker]; !ok {
					blocks[marker] = nil
				}
				line = strings.TrimSpace(m[2])
			}
		}
		if marker == "" || line == "" {
			continue
		}
		blocks[marker] = append(blocks[marker], line)
	}
	return doc
}

func parseSlotLines(lines []string, variant, terminus string, defaults timetable.HeadwayDefaults, logger *slog.Logger) []timetable.Slot {
	var slots []timetable.Slot
	for _, line := range lines {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			continue
		}
		if !strings.Contains(line, "|") {
			continue
		}

		slot, err := ParseSlotLine(line, defaults)
		if err != nil {
			logging.LogWarning(logger, "skipping invalid slot line", err,
				slog.String("variant", variant),
				slog.String("direction", terminus),
				slog.String("line", line),
				slog.String("component", "slot_parser"))
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

// ParseSlotLine reads one "START | END | HEADWAY" line
func ParseSlotLine(line string, defaults timetable.HeadwayDefaults) (timetable.Slot, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return timetable.Slot{}, &timetable.ParseError{Input: line, Reason: "expected START | END | HEADWAY"}
	}

	start, err := timetable.ParseTime(parts[0])
	if err != nil {
		return timetable.Slot{}, err
	}
	end, err := timetable.ParseTime(parts[1])
	if err != nil {
		return timetable.Slot{}, err
	}
	headway, period, err := timetable.ParseHeadway(parts[2], defaults)
	if err != nil {
		return timetable.Slot{}, err
	}

	return timetable.Slot{
		Start:   start,
		End:     end,
		Headway: headway,
		Period:  period,
		Source:  strings.TrimSpace(line),
	}, nil
}
