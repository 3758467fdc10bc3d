package irrigation

import (
	"strings"
	"time"
)

// DayOfWeek is a weekday indexed from Monday (0) to Sunday (6).
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayFromIndex converts a 0-based weekday index (0=monday..6=sunday).
func DayFromIndex(i int) (DayOfWeek, error) {
	if i < 0 || i >= len(dayNames) {
		return 0, invalidInputError("day index %d out of range [0, 6]", i)
	}
	return DayOfWeek(i), nil
}

// DayFromWeekday converts a time.Weekday, which counts from Sunday.
func DayFromWeekday(wd time.Weekday) DayOfWeek {
	return DayOfWeek((int(wd) + 6) % 7)
}

// ParseDay accepts a long ("Sunday") or 3-letter ("sun") name, case-insensitive.
func ParseDay(s string) (DayOfWeek, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, long := range dayNames {
		if name == long || name == long[:3] {
			return DayOfWeek(i), nil
		}
	}
	return 0, invalidInputError("unrecognized day of week %q", s)
}

// Valid reports whether d is one of the seven weekdays.
func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Index returns the 0-based index, Monday first.
func (d DayOfWeek) Index() int { return int(d) }

// String returns the lowercase long name.
func (d DayOfWeek) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return dayNames[d]
}

// Long returns the capitalised long name, e.g. "Sunday".
func (d DayOfWeek) Long() string {
	s := d.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Short returns the 3-letter name, e.g. "sun".
func (d DayOfWeek) Short() string {
	return d.String()[:3]
}

// IsWeekend reports whether d is Saturday or Sunday.
func (d DayOfWeek) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

func (d DayOfWeek) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, invalidInputError("day index %d out of range [0, 6]", int(d))
	}
	return []byte(d.String()), nil
}

func (d *DayOfWeek) UnmarshalText(text []byte) error {
	v, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
