package irrigation

// State is the transient position of a program in its trigger state machine.
type State string

const (
	StateInitial   State = "initial"
	StateActivated State = "activated"
	StateFinished  State = "finished"
	StateDisabled  State = "disabled"
)

// Valid reports whether s is one of the four program states.
func (s State) Valid() bool {
	switch s {
	case StateInitial, StateActivated, StateFinished, StateDisabled:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }

func (s *State) UnmarshalText(text []byte) error {
	v := State(text)
	if !v.Valid() {
		return invalidInputError("unrecognized program state %q", string(text))
	}
	*s = v
	return nil
}
