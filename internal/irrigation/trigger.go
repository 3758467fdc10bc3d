package irrigation

import "strings"

// Trigger selects which calendar days a program runs on.
type Trigger string

const (
	TriggerDaily     Trigger = "daily"
	TriggerEvenDays  Trigger = "even_days"
	TriggerOddDays   Trigger = "odd_days"
	TriggerWeekDays  Trigger = "week_days"
	TriggerWeekEnds  Trigger = "week_ends"
	TriggerDayOfWeek Trigger = "day_of_week"
)

// Triggers lists every recurrence rule in declaration order.
var Triggers = []Trigger{
	TriggerDaily,
	TriggerEvenDays,
	TriggerOddDays,
	TriggerWeekDays,
	TriggerWeekEnds,
	TriggerDayOfWeek,
}

// ParseTrigger accepts the lowercase name of a trigger.
func ParseTrigger(s string) (Trigger, error) {
	t := Trigger(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", invalidInputError("unrecognized trigger %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	for _, known := range Triggers {
		if t == known {
			return true
		}
	}
	return false
}

func (t Trigger) String() string { return string(t) }

func (t Trigger) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, invalidInputError("unrecognized trigger %q", string(t))
	}
	return []byte(t), nil
}

func (t *Trigger) UnmarshalText(text []byte) error {
	v, err := ParseTrigger(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
