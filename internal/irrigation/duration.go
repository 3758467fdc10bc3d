package irrigation

import (
	"strings"
	"time"

	"github.com/sosodev/duration"
)

// Duration is a time span that travels as an ISO-8601 duration ("PT30M").
type Duration time.Duration

// ParseDuration accepts an ISO-8601 span and, for convenience on query
// strings, a Go duration literal such as "30m".
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalidInputError("empty duration")
	}
	if iso, err := duration.Parse(s); err == nil {
		return Duration(iso.ToTimeDuration()), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, invalidInputError("unrecognized duration %q", s)
	}
	return Duration(d), nil
}

// Std returns the span as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String returns the ISO-8601 form.
func (d Duration) String() string {
	return duration.Format(time.Duration(d))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
