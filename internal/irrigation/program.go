package irrigation

import "time"

// MinProgramDuration is the shortest run a program may have; anything shorter
// keeps the program disabled.
const MinProgramDuration = 30 * time.Second

// Program is one recurring watering run of a station.
//
// The exported fields are the persisted record. The evaluation state is
// transient: it lives only in memory and starts as StateInitial.
type Program struct {
	ID            int        `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Description   string     `json:"description" yaml:"description"`
	Trigger       Trigger    `json:"trigger" yaml:"trigger"`
	StartTime     ClockTime  `json:"start_time" yaml:"start_time"`
	Duration      Duration   `json:"duration" yaml:"duration"`
	WeekDay       *DayOfWeek `json:"week_day,omitempty" yaml:"week_day,omitempty"`
	Enabled       bool       `json:"enabled" yaml:"enabled"`
	EnabledAfter  *time.Time `json:"enabled_after,omitempty" yaml:"enabled_after,omitempty"`
	EnabledBefore *time.Time `json:"enabled_before,omitempty" yaml:"enabled_before,omitempty"`
	LastTriggered *time.Time `json:"last_triggered,omitempty" yaml:"last_triggered,omitempty"`

	state State
}

// DefaultProgram returns a disabled Tuesday 08:00 program running for 30 minutes.
func DefaultProgram() *Program {
	wd := Tuesday
	return &Program{
		Trigger:   TriggerDayOfWeek,
		StartTime: ClockTime(8 * time.Hour),
		Duration:  Duration(30 * time.Minute),
		WeekDay:   &wd,
		Enabled:   false,
		state:     StateInitial,
	}
}

// State returns the state reached by the last evaluation.
func (p *Program) State() State {
	if p.state == "" {
		return StateInitial
	}
	return p.state
}

// Run advances the state machine to instant t and returns the new state.
// Instants must be supplied in non-decreasing order.
func (p *Program) Run(t time.Time) State {
	p.state, p.LastTriggered = Evaluate(*p, p.State(), t)
	return p.state
}

// IsActive runs the program at t and reports whether it is activated.
func (p *Program) IsActive(t time.Time) bool {
	return p.Run(t) == StateActivated
}

// Evaluate is the pure transition function behind Run. It returns the state
// reached from state at instant t and the resulting last-triggered instant.
func Evaluate(p Program, state State, t time.Time) (State, *time.Time) {
	last := p.LastTriggered

	if p.disabledAt(t) {
		return StateDisabled, last
	}

	switch state {
	case StateDisabled:
		return StateInitial, last

	case StateActivated:
		if last == nil {
			return StateInitial, nil
		}
		if !t.Before(last.Add(p.Duration.Std())) {
			return StateFinished, last
		}
		return StateActivated, last

	case StateFinished:
		if last == nil {
			return StateInitial, nil
		}
		// The run is over; wait for a calendar date later than the one it ended on.
		end := last.Add(p.Duration.Std()).In(t.Location())
		if !sameDate(t, end) {
			return StateInitial, last
		}
		return StateFinished, last

	default:
		if ClockOf(t).Before(p.StartTime) || !p.matchesDay(t) {
			return StateInitial, last
		}
		if last != nil && !t.After(*last) {
			return StateInitial, last
		}
		triggered := t
		return StateActivated, &triggered
	}
}

// disabledAt reports whether the program is forced into StateDisabled at t.
// Note the window bounds: enabled_after before t disables, and so does
// enabled_before after t.
func (p Program) disabledAt(t time.Time) bool {
	switch {
	case !p.Enabled:
		return true
	case p.EnabledAfter != nil && p.EnabledAfter.Before(t):
		return true
	case p.EnabledBefore != nil && p.EnabledBefore.After(t):
		return true
	case p.Duration.Std() < MinProgramDuration:
		return true
	}
	return false
}

// matchesDay applies the recurrence rule to t's calendar date.
func (p Program) matchesDay(t time.Time) bool {
	wd := DayFromWeekday(t.Weekday())
	switch p.Trigger {
	case TriggerDaily:
		return true
	case TriggerEvenDays:
		return t.Day()%2 == 0
	case TriggerOddDays:
		return t.Day()%2 == 1
	case TriggerWeekDays:
		return !wd.IsWeekend()
	case TriggerWeekEnds:
		return wd.IsWeekend()
	case TriggerDayOfWeek:
		return p.WeekDay != nil && *p.WeekDay == wd
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Restore seeds the transient state, e.g. when a reloaded record replaces
// one that had already been evaluated.
func (p *Program) Restore(state State, lastTriggered *time.Time) error {
	if !state.Valid() {
		return invariantError("program %d: unknown state %q", p.ID, string(state))
	}
	if (state == StateActivated || state == StateFinished) && lastTriggered == nil {
		return invariantError("program %d: state %s requires last_triggered", p.ID, state)
	}
	if lastTriggered != nil {
		if p.LastTriggered == nil || lastTriggered.After(*p.LastTriggered) {
			lt := *lastTriggered
			p.LastTriggered = &lt
		}
	}
	p.state = state
	return nil
}

// Clone returns a deep copy, transient state included.
func (p *Program) Clone() *Program {
	c := *p
	if p.WeekDay != nil {
		wd := *p.WeekDay
		c.WeekDay = &wd
	}
	c.EnabledAfter = cloneTime(p.EnabledAfter)
	c.EnabledBefore = cloneTime(p.EnabledBefore)
	c.LastTriggered = cloneTime(p.LastTriggered)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func (p *Program) SetName(name string) { p.Name = name }

func (p *Program) SetDescription(desc string) { p.Description = desc }

func (p *Program) SetEnabled() { p.Enabled = true }

func (p *Program) SetDisabled() { p.Enabled = false }

func (p *Program) SetEnabledAfter(t *time.Time) { p.EnabledAfter = cloneTime(t) }

func (p *Program) SetEnabledBefore(t *time.Time) { p.EnabledBefore = cloneTime(t) }

func (p *Program) SetTrigger(t Trigger) error {
	if !t.Valid() {
		return invalidInputError("unrecognized trigger %q", string(t))
	}
	p.Trigger = t
	return nil
}

func (p *Program) SetStartTime(c ClockTime) error {
	if c < 0 || time.Duration(c) >= day {
		return invalidInputError("start time %s out of range", time.Duration(c))
	}
	p.StartTime = c
	return nil
}

// SetDuration rejects non-positive spans. Positive spans under
// MinProgramDuration are accepted but keep the program disabled.
func (p *Program) SetDuration(d time.Duration) error {
	if d <= 0 {
		return invalidInputError("duration must be positive, got %s", d)
	}
	p.Duration = Duration(d)
	return nil
}

func (p *Program) SetWeekDay(d DayOfWeek) error {
	if !d.Valid() {
		return invalidInputError("day index %d out of range [0, 6]", int(d))
	}
	p.WeekDay = &d
	return nil
}
