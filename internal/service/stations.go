package service

import (
	"context"
	"fmt"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/metrics"
	"controlling_irrigation/internal/models"
)

// OverrideParams carries a manual override request.
type OverrideParams struct {
	StartTime time.Time
	Duration  time.Duration
	Type      irrigation.OverrideType
	Enabled   bool
}

type StationService struct {
	g *graph
}

func NewStationService(g *graph) *StationService {
	return &StationService{g: g}
}

// Snapshot returns a copy of the whole graph.
func (s *StationService) Snapshot(ctx context.Context) (*irrigation.Config, error) {
	var out *irrigation.Config
	err := s.g.view(func(cfg *irrigation.Config) error {
		out = cfg.Clone()
		return nil
	})
	return out, err
}

func (s *StationService) GetStation(ctx context.Context, stationID int) (*irrigation.Station, error) {
	var out *irrigation.Station
	err := s.g.view(func(cfg *irrigation.Config) error {
		st, err := station(cfg, stationID)
		if err != nil {
			return err
		}
		out = st.Clone()
		return nil
	})
	return out, err
}

// AddStation creates a default station under the smallest free id.
func (s *StationService) AddStation(ctx context.Context) (*irrigation.Station, error) {
	var out *irrigation.Station
	err := s.g.mutate(ctx, func(cfg *irrigation.Config) (models.StationEvent, error) {
		st := cfg.AddStation()
		out = st.Clone()
		return models.StationEvent{
			Type:        models.EventStationAdded,
			StationID:   st.ID,
			Description: fmt.Sprintf("Station %d added", st.ID),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StationService) DeleteStation(ctx context.Context, stationID int) error {
	err := s.g.mutate(ctx, func(cfg *irrigation.Config) (models.StationEvent, error) {
		if _, err := station(cfg, stationID); err != nil {
			return models.StationEvent{}, err
		}
		cfg.DeleteStation(stationID)
		return models.StationEvent{
			Type:        models.EventStationDeleted,
			StationID:   stationID,
			Description: fmt.Sprintf("Station %d deleted", stationID),
		}, nil
	})
	if err == nil {
		metrics.ForgetStation(stationID)
	}
	return err
}

// updateStation applies a station-level change and records it as STATION_UPDATED.
func (s *StationService) updateStation(ctx context.Context, stationID int, field string, value any, apply func(st *irrigation.Station)) error {
	return s.g.mutate(ctx, func(cfg *irrigation.Config) (models.StationEvent, error) {
		st, err := station(cfg, stationID)
		if err != nil {
			return models.StationEvent{}, err
		}
		apply(st)
		return models.StationEvent{
			Type:        models.EventStationUpdated,
			StationID:   stationID,
			Description: fmt.Sprintf("Station %d %s updated", stationID, field),
			Metadata:    map[string]any{"field": field, "value": value},
		}, nil
	})
}

func (s *StationService) SetStationDescription(ctx context.Context, stationID int, desc string) error {
	return s.updateStation(ctx, stationID, "description", desc, func(st *irrigation.Station) {
		st.UpdateDescription(desc)
	})
}

func (s *StationService) SetStationName(ctx context.Context, stationID int, name string) error {
	return s.updateStation(ctx, stationID, "name", name, func(st *irrigation.Station) {
		st.SetName(name)
	})
}

func (s *StationService) SetStationEnabled(ctx context.Context, stationID int, enabled bool) error {
	return s.updateStation(ctx, stationID, "enabled", enabled, func(st *irrigation.Station) {
		if enabled {
			st.SetEnabled()
		} else {
			st.SetDisabled()
		}
	})
}

func (s *StationService) SetOverride(ctx context.Context, stationID int, p OverrideParams) error {
	return s.g.mutate(ctx, func(cfg *irrigation.Config) (models.StationEvent, error) {
		st, err := station(cfg, stationID)
		if err != nil {
			return models.StationEvent{}, err
		}
		if err := st.SetOverride(p.StartTime, p.Duration, p.Type, p.Enabled); err != nil {
			return models.StationEvent{}, err
		}
		o := st.Override
		return models.StationEvent{
			Type:        models.EventOverrideSet,
			StationID:   stationID,
			Description: fmt.Sprintf("Override %s set on station %d", o.Type, stationID),
			Metadata: map[string]any{
				"start_time": o.StartTime.UTC(),
				"duration":   o.Duration.String(),
				"type":       o.Type.String(),
				"enabled":    o.Enabled,
			},
		}, nil
	})
}

func (s *StationService) ClearOverride(ctx context.Context, stationID int) error {
	return s.g.mutate(ctx, func(cfg *irrigation.Config) (models.StationEvent, error) {
		st, err := station(cfg, stationID)
		if err != nil {
			return models.StationEvent{}, err
		}
		st.ClearOverride()
		return models.StationEvent{
			Type:        models.EventOverrideCleared,
			StationID:   stationID,
			Description: fmt.Sprintf("Override cleared on station %d", stationID),
		}, nil
	})
}

// Reload replaces the graph with the stored one. Programs whose station and
// program ids survive keep their evaluation state.
func (s *StationService) Reload(ctx context.Context) error {
	loaded, err := s.g.store.LoadAll(ctx)
	if err != nil {
		metrics.IncStoreError("load")
		return fmt.Errorf("load config: %w", err)
	}
	if loaded == nil {
		return irrigation.NotFoundError("no stored configuration to reload")
	}

	s.g.mu.Lock()
	defer s.g.mu.Unlock()

	for sid, st := range loaded.Stations {
		old, ok := s.g.cfg.Station(sid)
		if !ok {
			continue
		}
		for pid, p := range st.Programs {
			prev, ok := old.Program(pid)
			if !ok {
				continue
			}
			if err := p.Restore(prev.State(), prev.LastTriggered); err != nil {
				return err
			}
		}
	}
	for _, sid := range s.g.cfg.StationIDs() {
		if _, ok := loaded.Station(sid); !ok {
			metrics.ForgetStation(sid)
		}
	}
	s.g.cfg = loaded
	s.g.record(ctx, models.StationEvent{
		Type:        models.EventConfigReloaded,
		Description: fmt.Sprintf("Configuration reloaded with %d stations", len(loaded.Stations)),
	})
	return nil
}
