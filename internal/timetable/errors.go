package timetable

import (
	"errors"
	"fmt"
)

var (
	ErrParse                = errors.New("parse error")
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrInvariantViolation   = errors.New("invariant violation")
)

// ParseError reports time or headway text that matches none of the accepted forms.
// It is local to a single slot line and never aborts a batch
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// ConfigurationMissing reports a schedule variant with no usable slots for a direction
type ConfigurationMissing struct {
	Variant   string
	Direction string
}

func (e *ConfigurationMissing) Error() string {
	if e.Direction == "" {
		return fmt.Sprintf("variant %q: no slots configured", e.Variant)
	}
	return fmt.Sprintf("variant %q: no slots configured towards %s", e.Variant, e.Direction)
}

func (e *ConfigurationMissing) Unwrap() error { return ErrConfigurationMissing }

// InvariantViolation is fatal for the direction being computed
type InvariantViolation struct {
	Direction string
	Station   string
	Reason    string
}

func (e *InvariantViolation) Error() string {
	switch {
	case e.Direction != "" && e.Station != "":
		return fmt.Sprintf("towards %s at %s: %s", e.Direction, e.Station, e.Reason)
	case e.Station != "":
		return fmt.Sprintf("at %s: %s", e.Station, e.Reason)
	default:
		return e.Reason
	}
}

func (e *InvariantViolation) Unwrap() error { return ErrInvariantViolation }
