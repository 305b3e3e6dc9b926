package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"mrt6.timetable.org/internal/timetable"
)

// LoadLineConfig reads, decodes and validates a line file
func LoadLineConfig(path string) (*LineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading line config: %w", err)
	}
	return ParseLineConfig(data)
}

// ParseLineConfig decodes and validates line configuration from YAML
func ParseLineConfig(data []byte) (*LineConfig, error) {
	var cfg LineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding line config: %w", err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating line config: %w", err)
	}
	if cfg.GTFS.Source == "" {
		for _, d := range cfg.Directions {
			if len(d.Legs) == 0 {
				return nil, fmt.Errorf("direction towards %s has no legs and no GTFS source is configured", d.Terminus)
			}
		}
	}
	return &cfg, nil
}

// Line converts the configured directions into a timetable.Line. It does not
// validate the topology; directions sourced from GTFS have no legs yet
func (c *LineConfig) Line() (timetable.Line, error) {
	line := timetable.Line{Name: c.Info.Name}
	for _, d := range c.Directions {
		direction := timetable.Direction{Terminus: d.Terminus}
		for _, leg := range d.Legs {
			secs, err := timetable.ParseDuration(leg.Journey)
			if err != nil {
				return timetable.Line{}, fmt.Errorf("towards %s, leg to %s: %w", d.Terminus, leg.Station, err)
			}
			direction.Legs = append(direction.Legs, timetable.JourneyLeg{Station: leg.Station, Duration: secs})
		}
		line.Directions = append(line.Directions, direction)
	}
	return line, nil
}

// WaitPolicy builds the dwell policy, falling back to the standard categories
// and the "medium" default when the file leaves them out
func (c *LineConfig) WaitPolicy() (timetable.WaitPolicy, error) {
	categories := c.Wait.Categories
	if len(categories) == 0 {
		categories = timetable.StandardWaitCategories
	}

	def := c.Wait.Default.value()
	if c.Wait.Default == (WaitSetting{}) {
		def = timetable.Category("medium")
	}

	stations := make(map[string]timetable.WaitValue, len(c.Wait.Stations))
	for station, w := range c.Wait.Stations {
		stations[station] = w.value()
	}

	periods := make(map[timetable.Period]map[string]timetable.WaitValue, len(c.Wait.Periods))
	for label, overrides := range c.Wait.Periods {
		period := timetable.ParsePeriod(label)
		if periods[period] == nil {
			periods[period] = make(map[string]timetable.WaitValue, len(overrides))
		}
		for station, w := range overrides {
			periods[period][station] = w.value()
		}
	}

	return timetable.NewWaitPolicy(categories, def, stations, periods)
}

func (w WaitSetting) value() timetable.WaitValue {
	if w.Category != "" {
		return timetable.Category(w.Category)
	}
	return timetable.Seconds(w.Seconds)
}

// Headways returns the standard headways, overridden by the file where set
func (c *LineConfig) Headways() (timetable.HeadwayDefaults, error) {
	defaults := timetable.StandardHeadways
	for i, text := range c.Headway.Rush {
		secs, err := timetable.ParseDuration(text)
		if err != nil {
			return timetable.HeadwayDefaults{}, fmt.Errorf("rush headway: %w", err)
		}
		defaults.Rush[i] = secs
	}
	if c.Headway.OffPeak != "" {
		secs, err := timetable.ParseDuration(c.Headway.OffPeak)
		if err != nil {
			return timetable.HeadwayDefaults{}, fmt.Errorf("off-peak headway: %w", err)
		}
		defaults.OffPeak = secs
	}

	if err := timetable.AlternatingHeadway(defaults.Rush[0], defaults.Rush[1]).Validate(); err != nil {
		return timetable.HeadwayDefaults{}, fmt.Errorf("rush headway: %w", err)
	}
	if err := timetable.FixedHeadway(defaults.OffPeak).Validate(); err != nil {
		return timetable.HeadwayDefaults{}, fmt.Errorf("off-peak headway: %w", err)
	}
	return defaults, nil
}

// Location loads the line's time zone
func (c *LineConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Info.Timezone)
}

// Holidays parses the configured YYYY-MM-DD dates in the line's time zone
func (c *LineConfig) Holidays() ([]time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	holidays := make([]time.Time, 0, len(c.HolidayDates))
	for _, s := range c.HolidayDates {
		d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", s, err)
		}
		holidays = append(holidays, d)
	}
	return holidays, nil
}

// SlotMarkers maps each direction's slot-block marker to its terminus
func (c *LineConfig) SlotMarkers() map[string]string {
	markers := make(map[string]string, len(c.Directions))
	for _, d := range c.Directions {
		markers[strings.ToUpper(d.SlotsKey)] = d.Terminus
	}
	return markers
}

// VariantKeys lists the configured variant keys in file order
func (c *LineConfig) VariantKeys() []string {
	keys := make([]string, len(c.Variants))
	for i, v := range c.Variants {
		keys[i] = v.Key
	}
	return keys
}

// Variant finds a variant by key
func (c *LineConfig) Variant(key string) (VariantConfig, bool) {
	for _, v := range c.Variants {
		if v.Key == key {
			return v, true
		}
	}
	return VariantConfig{}, false
}

// Station finds a station's configuration by name
func (c *LineConfig) Station(name string) (StationConfig, bool) {
	for _, s := range c.Stations {
		if s.Name == name {
			return s, true
		}
	}
	return StationConfig{}, false
}

// Build converts the file into the line, dwell policy and headway defaults
// used for generation
func (c *LineConfig) Build() (timetable.Line, timetable.WaitPolicy, timetable.HeadwayDefaults, error) {
	line, err := c.Line()
	if err != nil {
		return timetable.Line{}, timetable.WaitPolicy{}, timetable.HeadwayDefaults{}, err
	}
	policy, err := c.WaitPolicy()
	if err != nil {
		return timetable.Line{}, timetable.WaitPolicy{}, timetable.HeadwayDefaults{}, err
	}
	defaults, err := c.Headways()
	if err != nil {
		return timetable.Line{}, timetable.WaitPolicy{}, timetable.HeadwayDefaults{}, err
	}
	return line, policy, defaults, nil
}
