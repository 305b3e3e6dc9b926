package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HeadwayDefaults holds the spacing used by the "rush" and "offpeak" keywords
type HeadwayDefaults struct {
	Rush    [2]int
	OffPeak int
}

// StandardHeadways alternates 6:00 and 5:30 in rush hours and runs every 8:00 otherwise
var StandardHeadways = HeadwayDefaults{
	Rush:    [2]int{360, 330},
	OffPeak: 480,
}

// HeadwaySpec is either a fixed spacing or a pair of spacings used alternately
type HeadwaySpec struct {
	values      [2]int
	alternating bool
}

// FixedHeadway spaces every departure by the same number of seconds
func FixedHeadway(seconds int) HeadwaySpec {
	return HeadwaySpec{values: [2]int{seconds, seconds}}
}

// AlternatingHeadway spaces departures by first, second, first, second, ...
func AlternatingHeadway(first, second int) HeadwaySpec {
	return HeadwaySpec{values: [2]int{first, second}, alternating: true}
}

func (h HeadwaySpec) IsAlternating() bool {
	return h.alternating
}

// Values returns the configured spacing(s)
func (h HeadwaySpec) Values() []int {
	if h.alternating {
		return []int{h.values[0], h.values[1]}
	}
	return []int{h.values[0]}
}

// Validate rejects non-positive spacings, which would never advance an expansion
func (h HeadwaySpec) Validate() error {
	for _, v := range h.Values() {
		if v <= 0 {
			return &InvariantViolation{Reason: fmt.Sprintf("headway must be positive, got %d", v)}
		}
	}
	return nil
}

func (h HeadwaySpec) String() string {
	if h.alternating {
		return fmt.Sprintf("%s/%s", formatMinSec(h.values[0]), formatMinSec(h.values[1]))
	}
	return formatMinSec(h.values[0])
}

// Sequence starts a fresh interval generator. Alternation always begins with the
// first value, so phase never leaks from one expansion into the next
func (h HeadwaySpec) Sequence() *Sequence {
	return &Sequence{spec: h}
}

// Sequence yields successive intervals of a HeadwaySpec
type Sequence struct {
	spec  HeadwaySpec
	phase int
}

// Next returns the interval to the following departure
func (s *Sequence) Next() int {
	v := s.spec.values[s.phase]
	if s.spec.alternating {
		s.phase = 1 - s.phase
	}
	return v
}

var (
	minSecPattern  = regexp.MustCompile(`^(\d+):(\d{1,2})$`)
	minutesPattern = regexp.MustCompile(`^\d+$`)
)

// ParseHeadway reads a headway declaration and the period it implies:
// "rush" alternates the default rush pair, "offpeak" uses the default off-peak
// spacing, and MM:SS or bare minutes give a fixed custom spacing
func ParseHeadway(text string, defaults HeadwayDefaults) (HeadwaySpec, Period, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	var (
		spec   HeadwaySpec
		period Period
	)

	switch {
	case s == "rush":
		spec, period = AlternatingHeadway(defaults.Rush[0], defaults.Rush[1]), PeriodRush
	case s == "offpeak" || s == "off-peak":
		spec, period = FixedHeadway(defaults.OffPeak), PeriodOffPeak
	case minSecPattern.MatchString(s):
		m := minSecPattern.FindStringSubmatch(s)
		mins, err := strconv.Atoi(m[1])
		if err != nil {
			return HeadwaySpec{}, "", &ParseError{Input: text, Reason: err.Error()}
		}
		sec, _ := strconv.Atoi(m[2])
		if sec > 59 {
			return HeadwaySpec{}, "", &ParseError{Input: text, Reason: "seconds out of range"}
		}
		spec, period = FixedHeadway(mins*secondsPerMinute+sec), PeriodCustom
	case minutesPattern.MatchString(s):
		mins, err := strconv.Atoi(s)
		if err != nil {
			return HeadwaySpec{}, "", &ParseError{Input: text, Reason: err.Error()}
		}
		spec, period = FixedHeadway(mins*secondsPerMinute), PeriodCustom
	default:
		return HeadwaySpec{}, "", &ParseError{Input: text, Reason: "headway must be rush, offpeak, MM:SS or minutes"}
	}

	if err := spec.Validate(); err != nil {
		return HeadwaySpec{}, "", &ParseError{Input: text, Reason: err.Error()}
	}
	return spec, period, nil
}

// ParseDuration reads an M:SS or MM:SS duration into seconds
func ParseDuration(text string) (int, error) {
	m := minSecPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, &ParseError{Input: text, Reason: "duration must be M:SS"}
	}
	mins, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &ParseError{Input: text, Reason: err.Error()}
	}
	sec, _ := strconv.Atoi(m[2])
	if sec > 59 {
		return 0, &ParseError{Input: text, Reason: "seconds out of range"}
	}
	return mins*secondsPerMinute + sec, nil
}

func formatMinSec(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/secondsPerMinute, seconds%secondsPerMinute)
}
