package service

import (
	"context"
	"fmt"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/models"
)

// ProgramChange is one field update of a program. Build it with the
// Change* constructors.
type ProgramChange struct {
	Field string
	Value any
	apply func(p *irrigation.Program) error
}

func ChangeName(name string) ProgramChange {
	return ProgramChange{Field: "name", Value: name, apply: func(p *irrigation.Program) error {
		p.SetName(name)
		return nil
	}}
}

func ChangeDescription(desc string) ProgramChange {
	return ProgramChange{Field: "description", Value: desc, apply: func(p *irrigation.Program) error {
		p.SetDescription(desc)
		return nil
	}}
}

func ChangeTrigger(t irrigation.Trigger) ProgramChange {
	return ProgramChange{Field: "trigger", Value: t.String(), apply: func(p *irrigation.Program) error {
		return p.SetTrigger(t)
	}}
}

func ChangeWeekDay(d irrigation.DayOfWeek) ProgramChange {
	return ProgramChange{Field: "week_day", Value: d.String(), apply: func(p *irrigation.Program) error {
		return p.SetWeekDay(d)
	}}
}

func ChangeDuration(d time.Duration) ProgramChange {
	return ProgramChange{Field: "duration", Value: irrigation.Duration(d).String(), apply: func(p *irrigation.Program) error {
		return p.SetDuration(d)
	}}
}

func ChangeStartTime(c irrigation.ClockTime) ProgramChange {
	return ProgramChange{Field: "start_time", Value: c.String(), apply: func(p *irrigation.Program) error {
		return p.SetStartTime(c)
	}}
}

// ChangeEnabled enables or disables the program.
func ChangeEnabled(enabled bool) ProgramChange {
	return ProgramChange{Field: "enabled", Value: enabled, apply: func(p *irrigation.Program) error {
		if enabled {
			p.SetEnabled()
		} else {
			p.SetDisabled()
		}
		return nil
	}}
}

// ChangeEnabledAfter sets the bound; nil removes it.
func ChangeEnabledAfter(t *time.Time) ProgramChange {
	return ProgramChange{Field: "enabled_after", Value: t, apply: func(p *irrigation.Program) error {
		p.SetEnabledAfter(t)
		return nil
	}}
}

// ChangeEnabledBefore sets the bound; nil removes it.
func ChangeEnabledBefore(t *time.Time) ProgramChange {
	return ProgramChange{Field: "enabled_before", Value: t, apply: func(p *irrigation.Program) error {
		p.SetEnabledBefore(t)
		return nil
	}}
}

type ProgramService struct {
	g *graph
}

func NewProgramService(g *graph) *ProgramService {
	return &ProgramService{g: g}
}

// ListPrograms returns copies of the station's programs in id order.
func (s *ProgramService) ListPrograms(ctx context.Context, stationID int) ([]*irrigation.Program, error) {
	var out []*irrigation.Program
	err := s.g.view(func(cfg *irrigation.Config) error {
		st, err := station(cfg, stationID)
		if err != nil {
			return err
		}
		out = make([]*irrigation.Program, 0, len(st.Programs))
		for _, id := range st.ProgramIDs() {
			out = append(out, st.Programs[id].Clone())
		}
		return nil
	})
	return out, err
}

func (s *ProgramService) GetProgram(ctx context.Context, stationID, programID int) (*irrigation.Program, error) {
	var out *irrigation.Program
	err := s.g.view(func(cfg *irrigation.Config) error {
		p, err := program(cfg, stationID, programID)
		if err != nil {
			return err
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

// AddProgram attaches a default program under the smallest free id.
func (s *ProgramService) AddProgram(ctx context.Context, stationID int) (*irrigation.Program, error) {
	var out *irrigation.Program
	err := s.g.mutate(ctx, func(cfg *irrigation.Config) (models.StationEvent, error) {
		st, err := station(cfg, stationID)
		if err != nil {
			return models.StationEvent{}, err
		}
		p := st.AddProgram()
		out = p.Clone()
		return models.StationEvent{
			Type:        models.EventProgramAdded,
			StationID:   stationID,
			ProgramID:   p.ID,
			Description: fmt.Sprintf("Program %d added to station %d", p.ID, stationID),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProgramService) DeleteProgram(ctx context.Context, stationID, programID int) error {
	return s.g.mutate(ctx, func(cfg *irrigation.Config) (models.StationEvent, error) {
		st, err := station(cfg, stationID)
		if err != nil {
			return models.StationEvent{}, err
		}
		if _, ok := st.Program(programID); !ok {
			return models.StationEvent{}, irrigation.NotFoundError("program %d of station %d", programID, stationID)
		}
		st.DeleteProgram(programID)
		return models.StationEvent{
			Type:        models.EventProgramDeleted,
			StationID:   stationID,
			ProgramID:   programID,
			Description: fmt.Sprintf("Program %d deleted from station %d", programID, stationID),
		}, nil
	})
}

// UpdateProgram applies change and returns the updated program.
func (s *ProgramService) UpdateProgram(ctx context.Context, stationID, programID int, change ProgramChange) (*irrigation.Program, error) {
	if change.apply == nil {
		return nil, fmt.Errorf("%w: empty program change", irrigation.ErrInvalidInput)
	}
	var out *irrigation.Program
	err := s.g.mutate(ctx, func(cfg *irrigation.Config) (models.StationEvent, error) {
		p, err := program(cfg, stationID, programID)
		if err != nil {
			return models.StationEvent{}, err
		}
		if err := change.apply(p); err != nil {
			return models.StationEvent{}, err
		}
		out = p.Clone()
		return models.StationEvent{
			Type:        models.EventProgramUpdated,
			StationID:   stationID,
			ProgramID:   programID,
			Description: fmt.Sprintf("Program %d of station %d %s updated", programID, stationID, change.Field),
			Metadata:    map[string]any{"field": change.Field, "value": change.Value},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
