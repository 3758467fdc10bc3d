package irrigation

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ClockTime is a date-agnostic time of day, stored as the offset from midnight.
type ClockTime time.Duration

// NewClockTime builds a time of day from its components.
func NewClockTime(hour, minute, second int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, invalidInputError("time of day %02d:%02d:%02d out of range", hour, minute, second)
	}
	return ClockTime(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second), nil
}

// ClockOf returns the time of day of t in t's own location.
func ClockOf(t time.Time) ClockTime {
	h, m, s := t.Clock()
	return ClockTime(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond()))
}

var clockLayouts = []string{"15:04:05", "15:04", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// ParseClockTime accepts "HH:MM[:SS]" or a full timestamp, whose date is ignored.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, invalidInputError("unrecognized time of day %q", s)
}

// Before reports whether c is earlier in the day than o.
func (c ClockTime) Before(o ClockTime) bool { return c < o }

func (c ClockTime) String() string {
	d := time.Duration(c) % day
	return fmt.Sprintf("%02d:%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute), int(d%time.Minute/time.Second))
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(text []byte) error {
	v, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
