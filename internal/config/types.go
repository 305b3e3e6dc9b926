package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LineInfo names the line and the time zone its clocks are kept in
type LineInfo struct {
	Name     string `yaml:"name" validate:"required"`
	Timezone string `yaml:"timezone" validate:"required,timezone"`
}

// StationConfig is a station with optional map coordinates
type StationConfig struct {
	Name string   `yaml:"name" validate:"required"`
	Lat  *float64 `yaml:"lat" validate:"omitempty,latitude"`
	Lon  *float64 `yaml:"lon" validate:"omitempty,longitude"`
}

// LegConfig is the journey time (M:SS) from the previous station
type LegConfig struct {
	Station string `yaml:"station" validate:"required"`
	Journey string `yaml:"journey" validate:"required"`
}

// DirectionConfig describes one direction of travel
type DirectionConfig struct {
	Terminus string      `yaml:"terminus" validate:"required"`
	SlotsKey string      `yaml:"slotsKey" validate:"required"`
	Legs     []LegConfig `yaml:"legs" validate:"omitempty,min=2,dive"`
}

// WaitSetting is a dwell override written either as a category name or as
// a number of seconds
type WaitSetting struct {
	Category string
	Seconds  int
}

// UnmarshalYAML accepts scalar integers as seconds and any other scalar as a category
func (w *WaitSetting) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: wait setting must be a category or seconds", value.Line)
	}
	if value.Tag == "!!int" {
		var secs int
		if err := value.Decode(&secs); err != nil {
			return err
		}
		*w = WaitSetting{Seconds: secs}
		return nil
	}
	*w = WaitSetting{Category: value.Value}
	return nil
}

// WaitConfig is the three-layer dwell policy
type WaitConfig struct {
	Categories map[string]int                    `yaml:"categories"`
	Default    WaitSetting                       `yaml:"default"`
	Stations   map[string]WaitSetting            `yaml:"stations"`
	Periods    map[string]map[string]WaitSetting `yaml:"periods"`
}

// HeadwayConfig holds the spacing behind the "rush" and "offpeak" keywords
type HeadwayConfig struct {
	Rush    []string `yaml:"rush" validate:"omitempty,len=2"`
	OffPeak string   `yaml:"offpeak"`
}

// VariantConfig is one schedule variant and its output file
type VariantConfig struct {
	Key    string `yaml:"key" validate:"required"`
	Name   string `yaml:"name"`
	Output string `yaml:"output" validate:"required"`
}

// GTFSConfig optionally sources journey legs from a GTFS static feed
type GTFSConfig struct {
	Source  string `yaml:"source"`
	RouteID string `yaml:"routeId" validate:"required_with=Source"`
}

// LineConfig is the root of the line file
type LineConfig struct {
	Info         LineInfo          `yaml:"line" validate:"required"`
	Stations     []StationConfig   `yaml:"stations" validate:"dive"`
	Directions   []DirectionConfig `yaml:"directions" validate:"len=2,dive"`
	Wait         WaitConfig        `yaml:"wait"`
	Headway      HeadwayConfig     `yaml:"headway"`
	Variants     []VariantConfig   `yaml:"variants" validate:"min=1,dive"`
	HolidayDates []string          `yaml:"holidays"`
	GTFS         GTFSConfig        `yaml:"gtfs"`
}
