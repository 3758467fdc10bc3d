package irrigation

import (
	"strings"
	"time"
)

// OverrideType is the manual intent of an override.
type OverrideType string

const (
	OverrideOn  OverrideType = "on"
	OverrideOff OverrideType = "off"
)

// ParseOverrideType accepts "on" or "off", case-insensitive.
func ParseOverrideType(s string) (OverrideType, error) {
	t := OverrideType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", invalidInputError("unrecognized override type %q", s)
	}
	return t, nil
}

// Valid reports whether t is on or off.
func (t OverrideType) Valid() bool {
	return t == OverrideOn || t == OverrideOff
}

func (t OverrideType) String() string { return string(t) }

func (t OverrideType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, invalidInputError("unrecognized override type %q", string(t))
	}
	return []byte(t), nil
}

func (t *OverrideType) UnmarshalText(text []byte) error {
	v, err := ParseOverrideType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Override is a time-boxed manual on/off instruction that outranks the schedule.
type Override struct {
	StartTime time.Time    `json:"start_time" yaml:"start_time"`
	Duration  Duration     `json:"duration" yaml:"duration"`
	Enabled   bool         `json:"enabled" yaml:"enabled"`
	Type      OverrideType `json:"type" yaml:"type"`
}

// NewOverride validates and builds an override.
func NewOverride(start time.Time, d time.Duration, typ OverrideType, enabled bool) (*Override, error) {
	if start.IsZero() {
		return nil, invalidInputError("override start time is required")
	}
	if d <= 0 {
		return nil, invalidInputError("override duration must be positive, got %s", d)
	}
	if !typ.Valid() {
		return nil, invalidInputError("unrecognized override type %q", string(typ))
	}
	return &Override{StartTime: start, Duration: Duration(d), Enabled: enabled, Type: typ}, nil
}

// End returns the first instant the override no longer covers.
func (o Override) End() time.Time {
	return o.StartTime.Add(o.Duration.Std())
}

// Applies reports whether the override is in force at t and, if so, its type.
func (o Override) Applies(t time.Time) (OverrideType, bool) {
	if !o.Enabled || t.Before(o.StartTime) || !t.Before(o.End()) {
		return "", false
	}
	return o.Type, true
}
