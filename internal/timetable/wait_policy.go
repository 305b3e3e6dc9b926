package timetable

import (
	"fmt"
	"sort"
)

// Standard dwell categories, in seconds
var StandardWaitCategories = map[string]int{
	"low":    30,
	"medium": 45,
	"high":   60,
}

// WaitValue is a dwell override: either a named category or a literal second count
type WaitValue struct {
	category string
	seconds  int
}

// Category refers to a named dwell category
func Category(name string) WaitValue {
	return WaitValue{category: name}
}

// Seconds is a literal dwell duration
func Seconds(n int) WaitValue {
	return WaitValue{seconds: n}
}

func (v WaitValue) IsCategory() bool {
	return v.category != ""
}

func (v WaitValue) String() string {
	if v.IsCategory() {
		return v.category
	}
	return fmt.Sprintf("%ds", v.seconds)
}

// WaitPolicy resolves the dwell time charged at a station for a period
type WaitPolicy struct {
	Categories       map[string]int
	Default          WaitValue
	StationOverrides map[string]WaitValue
	PeriodOverrides  map[Period]map[string]WaitValue
}

// NewWaitPolicy validates the policy so that Resolve is total afterwards
func NewWaitPolicy(categories map[string]int, def WaitValue, stationOverrides map[string]WaitValue, periodOverrides map[Period]map[string]WaitValue) (WaitPolicy, error) {
	if categories == nil {
		categories = StandardWaitCategories
	}
	policy := WaitPolicy{
		Categories:       categories,
		Default:          def,
		StationOverrides: stationOverrides,
		PeriodOverrides:  periodOverrides,
	}
	if err := policy.Validate(); err != nil {
		return WaitPolicy{}, err
	}
	return policy, nil
}

// DefaultWaitPolicy charges the medium category everywhere
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		Categories: StandardWaitCategories,
		Default:    Category("medium"),
	}
}

// Validate checks every category reference and literal in the policy
func (p WaitPolicy) Validate() error {
	for name, secs := range p.Categories {
		if secs < 0 {
			return &InvariantViolation{Reason: fmt.Sprintf("wait category %q is negative (%d)", name, secs)}
		}
	}
	if err := p.check("default", p.Default); err != nil {
		return err
	}
	for _, station := range sortedKeys(p.StationOverrides) {
		if err := p.check(station, p.StationOverrides[station]); err != nil {
			return err
		}
	}
	for period, overrides := range p.PeriodOverrides {
		for _, station := range sortedKeys(overrides) {
			if err := p.check(station, overrides[station]); err != nil {
				return fmt.Errorf("period %s: %w", period, err)
			}
		}
	}
	return nil
}

func (p WaitPolicy) check(station string, v WaitValue) error {
	if v.IsCategory() {
		if _, ok := p.Categories[v.category]; !ok {
			return &InvariantViolation{Station: station, Reason: fmt.Sprintf("unknown wait category %q", v.category)}
		}
		return nil
	}
	if v.seconds < 0 {
		return &InvariantViolation{Station: station, Reason: fmt.Sprintf("negative wait time %d", v.seconds)}
	}
	return nil
}

// Resolve returns the dwell seconds for station under period. Lookup order is
// period-specific station override, then station override, then the default
func (p WaitPolicy) Resolve(station string, period Period) int {
	if overrides, ok := p.PeriodOverrides[period]; ok {
		if v, ok := overrides[station]; ok {
			return p.value(v)
		}
	}
	if v, ok := p.StationOverrides[station]; ok {
		return p.value(v)
	}
	return p.value(p.Default)
}

func (p WaitPolicy) value(v WaitValue) int {
	if v.IsCategory() {
		return p.Categories[v.category]
	}
	return v.seconds
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
