package irrigation

import "time"

// Station is a single valve with its programs and an optional manual override.
type Station struct {
	ID          int              `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Enabled     bool             `json:"enabled" yaml:"enabled"`
	Programs    map[int]*Program `json:"programs" yaml:"programs"`
	Override    *Override        `json:"override" yaml:"override"`
}

// StationSummary is the evaluated view of a station at one instant.
type StationSummary struct {
	ID             int           `json:"station_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Enabled        bool          `json:"enabled"`
	OverrideActive bool          `json:"override_active"`
	OverrideType   *OverrideType `json:"override_type"`
	ProgramStates  map[int]State `json:"program_states"`
	EvaluatedAt    time.Time     `json:"evaluated_at"`
}

// Active applies the station verdict to an already computed summary.
func (s StationSummary) Active() bool {
	if !s.Enabled {
		return false
	}
	if s.OverrideActive {
		return s.OverrideType != nil && *s.OverrideType == OverrideOn
	}
	for _, st := range s.ProgramStates {
		if st == StateActivated {
			return true
		}
	}
	return false
}

// DefaultStation returns a disabled station holding one default program.
func DefaultStation(id int) *Station {
	p := DefaultProgram()
	p.ID = 1
	return &Station{
		ID:       id,
		Programs: map[int]*Program{p.ID: p},
	}
}

// Status evaluates every program at t and reports the override in force.
// It mutates nothing beyond each program's own evaluation.
func (s *Station) Status(t time.Time) StationSummary {
	summary := StationSummary{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Enabled:       s.Enabled,
		ProgramStates: make(map[int]State, len(s.Programs)),
		EvaluatedAt:   t,
	}
	if s.Override != nil {
		if typ, ok := s.Override.Applies(t); ok {
			summary.OverrideActive = true
			summary.OverrideType = &typ
		}
	}
	for _, id := range sortedIDs(s.Programs) {
		summary.ProgramStates[id] = s.Programs[id].Run(t)
	}
	return summary
}

// IsActive reports whether the valve should be open at t.
// An active override wins over the programs in both directions.
func (s *Station) IsActive(t time.Time) bool {
	return s.Status(t).Active()
}

// Program looks up a program by id.
func (s *Station) Program(id int) (*Program, bool) {
	p, ok := s.Programs[id]
	return p, ok
}

// ProgramIDs returns the program ids in ascending order.
func (s *Station) ProgramIDs() []int {
	return sortedIDs(s.Programs)
}

// AddProgram attaches a default program under the smallest free id.
func (s *Station) AddProgram() *Program {
	if s.Programs == nil {
		s.Programs = make(map[int]*Program)
	}
	p := DefaultProgram()
	p.ID = nextID(s.Programs)
	s.Programs[p.ID] = p
	return p
}

// DeleteProgram removes a program; unknown ids are ignored.
func (s *Station) DeleteProgram(id int) {
	delete(s.Programs, id)
}

func (s *Station) UpdateDescription(desc string) { s.Description = desc }

func (s *Station) SetName(name string) { s.Name = name }

func (s *Station) SetEnabled() { s.Enabled = true }

func (s *Station) SetDisabled() { s.Enabled = false }

// SetOverride replaces the station override.
func (s *Station) SetOverride(start time.Time, d time.Duration, typ OverrideType, enabled bool) error {
	o, err := NewOverride(start, d, typ, enabled)
	if err != nil {
		return err
	}
	s.Override = o
	return nil
}

func (s *Station) ClearOverride() { s.Override = nil }

// Clone returns a deep copy including program evaluation state.
func (s *Station) Clone() *Station {
	c := *s
	c.Programs = make(map[int]*Program, len(s.Programs))
	for id, p := range s.Programs {
		c.Programs[id] = p.Clone()
	}
	if s.Override != nil {
		o := *s.Override
		c.Override = &o
	}
	return &c
}
