package irrigation

import (
	"errors"
	"testing"
	"time"
)

func TestOverride_Applies(t *testing.T) {
	start := time.Date(2025, 4, 6, 10, 0, 0, 0, time.UTC)
	o := Override{StartTime: start, Duration: Duration(time.Hour), Enabled: true, Type: OverrideOff}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before start", start.Add(-time.Second), false},
		{"at start", start, true},
		{"inside", start.Add(30 * time.Minute), true},
		{"last instant", start.Add(time.Hour - time.Nanosecond), true},
		{"at end", start.Add(time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ, ok := o.Applies(tc.at)
			if ok != tc.want {
				t.Fatalf("Applies=%v, want %v", ok, tc.want)
			}
			if ok && typ != OverrideOff {
				t.Fatalf("type=%q, want off", typ)
			}
			if !ok && typ != "" {
				t.Fatalf("inactive override must not report a type, got %q", typ)
			}
		})
	}

	o.Enabled = false
	if _, ok := o.Applies(start); ok {
		t.Fatalf("disabled override must not apply")
	}
}

func TestNewOverride_Validation(t *testing.T) {
	start := time.Date(2025, 4, 6, 10, 0, 0, 0, time.UTC)
	if _, err := NewOverride(start, 0, OverrideOn, true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero duration: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewOverride(time.Time{}, time.Hour, OverrideOn, true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero start: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewOverride(start, time.Hour, OverrideType("maybe"), true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad type: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ParseOverrideType("ON"); err != nil {
		t.Fatalf("ParseOverrideType(ON): %v", err)
	}
}
