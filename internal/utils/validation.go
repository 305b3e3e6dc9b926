package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mrt6.timetable.org/internal/timetable"
)

// Compiled regular expressions for validation
var (
	// Station names are words with spaces, digits, hyphens, dots and apostrophes
	validNamePattern = regexp.MustCompile(`^[\p{L}0-9 .'-]+$`)

	// Variant keys are lower-case identifiers
	validKeyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

const (
	DefaultDepartureCount = 3
	MaxDepartureCount     = 20
)

// ValidateStationName validates that a station path segment is safe
func ValidateStationName(name string) error {
	if name == "" {
		return errors.New("station cannot be empty")
	}
	if len(name) > 100 {
		return errors.New("station too long (max 100 characters)")
	}
	if !validNamePattern.MatchString(name) {
		return errors.New("station contains invalid characters")
	}
	return nil
}

// ValidateVariant validates a variant key. Empty is allowed
func ValidateVariant(variant string) error {
	if variant == "" {
		return nil
	}
	if len(variant) > 50 || !validKeyPattern.MatchString(variant) {
		return errors.New("variant must be a lower-case key such as weekdays")
	}
	return nil
}

// ValidateDate validates date strings in YYYY-MM-DD format
func ValidateDate(date string) error {
	// Empty dates are allowed (will default to current date)
	if date == "" {
		return nil
	}

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// ParseClockParam reads the time query parameter. ok is false when it is empty
func ParseClockParam(s string) (v timetable.TimeValue, ok bool, err error) {
	if s == "" {
		return 0, false, nil
	}
	v, err = timetable.ParseTime(s)
	if err != nil {
		return 0, false, errors.New("invalid time, use HH:MM or HH:MM:SS")
	}
	return v, true, nil
}

// ParseCount reads the count query parameter, defaulting to DefaultDepartureCount
func ParseCount(s string) (int, error) {
	if s == "" {
		return DefaultDepartureCount, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("count must be a whole number")
	}
	if n < 1 || n > MaxDepartureCount {
		return 0, errors.New("count must be between 1 and 20")
	}
	return n, nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}
