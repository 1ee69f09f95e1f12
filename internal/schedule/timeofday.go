package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time with second resolution and no date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// TimeOfDayOf truncates t to its time of day in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{Hour: h, Minute: m, Second: s}
}

// ParseTimeOfDay parses a strict HH:MM:SS value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return TimeOfDay{}, &ParseError{Input: s, Reason: "expected HH:MM:SS"}
	}

	limits := [3]int{23, 59, 59}
	var fields [3]int
	for i, part := range parts {
		if len(part) != 2 {
			return TimeOfDay{}, &ParseError{Input: s, Reason: "each field must have two digits"}
		}
		if part[0] < '0' || part[0] > '9' || part[1] < '0' || part[1] > '9' {
			return TimeOfDay{}, &ParseError{Input: s, Reason: "fields must be numeric"}
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return TimeOfDay{}, &ParseError{Input: s, Reason: "fields must be numeric"}
		}
		if v > limits[i] {
			return TimeOfDay{}, &ParseError{Input: s, Reason: fmt.Sprintf("field %q out of range", part)}
		}
		fields[i] = v
	}

	return TimeOfDay{Hour: fields[0], Minute: fields[1], Second: fields[2]}, nil
}

// ParseList parses a comma separated list of HH:MM:SS values.
// Repeated values are kept; each one is a separate request.
func ParseList(s string) ([]TimeOfDay, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &ParseError{Input: s, Reason: "no target times given"}
	}

	var targets []TimeOfDay
	for _, raw := range strings.Split(s, ",") {
		tod, err := ParseTimeOfDay(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		targets = append(targets, tod)
	}
	return targets, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or after u.
func (t TimeOfDay) Compare(u TimeOfDay) int {
	switch a, b := t.seconds(), u.seconds(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// After reports whether t is strictly later in the day than u.
func (t TimeOfDay) After(u TimeOfDay) bool {
	return t.Compare(u) > 0
}

// On returns the instant of t on the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, day.Location())
}

// Strings formats each value as HH:MM:SS.
func Strings(tods []TimeOfDay) []string {
	out := make([]string, len(tods))
	for i, tod := range tods {
		out[i] = tod.String()
	}
	return out
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
