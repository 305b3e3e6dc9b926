package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	SecondsPerDay    = 24 * secondsPerHour
)

// TimeValue is a time of day plus elapsed duration, measured in seconds from the
// origin (midnight) of the service day on which a window starts. Values past
// SecondsPerDay belong to the following day; they are never folded back, so two
// values taken from the same origin always compare by elapsed time
type TimeValue int

var (
	clockPattern    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	twelveHrPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)
	digitsPattern   = regexp.MustCompile(`^(\d{3,4})(?:\s*([AaPp][Mm]))?$`)
)

// NewTimeValue builds a TimeValue from clock components. It does not range-check
func NewTimeValue(hours, minutes, seconds int) TimeValue {
	return TimeValue(hours*secondsPerHour + minutes*secondsPerMinute + seconds)
}

// ParseTime accepts HH:MM, HH:MM:SS, HHMM or HMM (colon inserted positionally),
// and 12-hour H:MM AM/PM or HH:MM AM/PM. The digit-only form may also carry an
// AM/PM suffix
func ParseTime(text string) (TimeValue, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, &ParseError{Input: text, Reason: "empty time"}
	}

	if m := digitsPattern.FindStringSubmatch(s); m != nil {
		digits := m[1]
		split := len(digits) - 2
		s = digits[:split] + ":" + digits[split:]
		if m[2] != "" {
			s += " " + m[2]
		}
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		sec := 0
		if m[3] != "" {
			sec, _ = strconv.Atoi(m[3])
		}
		if h > 23 || mins > 59 || sec > 59 {
			return 0, &ParseError{Input: text, Reason: "clock component out of range"}
		}
		return NewTimeValue(h, mins, sec), nil
	}

	if m := twelveHrPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		if h < 1 || h > 12 || mins > 59 {
			return 0, &ParseError{Input: text, Reason: "12-hour component out of range"}
		}
		h %= 12
		if strings.EqualFold(m[3], "PM") {
			h += 12
		}
		return NewTimeValue(h, mins, 0), nil
	}

	return 0, &ParseError{Input: text, Reason: "use HH:MM, HH:MM:SS, HHMM or HH:MM AM/PM"}
}

// MustParseTime is ParseTime for literals known to be valid
func MustParseTime(text string) TimeValue {
	tv, err := ParseTime(text)
	if err != nil {
		panic(err)
	}
	return tv
}

// Add returns the value advanced by the given number of seconds
func (t TimeValue) Add(seconds int) TimeValue {
	return t + TimeValue(seconds)
}

// NextDay returns the same clock time one day later
func (t TimeValue) NextDay() TimeValue {
	return t + SecondsPerDay
}

// TimeOfDay folds the value onto a single 24-hour clock
func (t TimeValue) TimeOfDay() TimeValue {
	v := int(t) % SecondsPerDay
	if v < 0 {
		v += SecondsPerDay
	}
	return TimeValue(v)
}

// Seconds returns the elapsed seconds from the origin
func (t TimeValue) Seconds() int {
	return int(t)
}

func (t TimeValue) clock() (int, int, int) {
	v := int(t.TimeOfDay())
	return v / secondsPerHour, (v % secondsPerHour) / secondsPerMinute, v % secondsPerMinute
}

// Format renders HH:MM:SS on a 24-hour clock
func (t TimeValue) Format() string {
	h, m, s := t.clock()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatShort renders HH:MM, truncating seconds
func (t TimeValue) FormatShort() string {
	h, m, _ := t.clock()
	return fmt.Sprintf("%02d:%02d", h, m)
}

func (t TimeValue) String() string {
	return t.Format()
}

// Compare orders two values by elapsed time: -1 if a is earlier, +1 if later, 0 if equal
func Compare(a, b TimeValue) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
