package service

import (
	"context"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/logger"
	"controlling_irrigation/internal/models"
	"controlling_irrigation/internal/repository"
)

// Stations manages the station graph and station-level settings.
type Stations interface {
	Snapshot(ctx context.Context) (*irrigation.Config, error)
	GetStation(ctx context.Context, stationID int) (*irrigation.Station, error)
	AddStation(ctx context.Context) (*irrigation.Station, error)
	DeleteStation(ctx context.Context, stationID int) error
	SetStationDescription(ctx context.Context, stationID int, desc string) error
	SetStationName(ctx context.Context, stationID int, name string) error
	SetStationEnabled(ctx context.Context, stationID int, enabled bool) error
	SetOverride(ctx context.Context, stationID int, p OverrideParams) error
	ClearOverride(ctx context.Context, stationID int) error
	Reload(ctx context.Context) error
}

// Programs manages the programs of a station.
type Programs interface {
	ListPrograms(ctx context.Context, stationID int) ([]*irrigation.Program, error)
	GetProgram(ctx context.Context, stationID, programID int) (*irrigation.Program, error)
	AddProgram(ctx context.Context, stationID int) (*irrigation.Program, error)
	DeleteProgram(ctx context.Context, stationID, programID int) error
	UpdateProgram(ctx context.Context, stationID, programID int, change ProgramChange) (*irrigation.Program, error)
}

// Monitoring evaluates stations. Every call samples the clock once and
// uses that instant for all stations it touches.
type Monitoring interface {
	Statuses(ctx context.Context) ([]irrigation.StationSummary, error)
	Status(ctx context.Context, stationID int) (irrigation.StationSummary, error)
	IsActive(ctx context.Context, stationID int) (bool, error)
	ActiveStations(ctx context.Context) (map[int]bool, error)
}

// EventLog exposes the activity log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.StationEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Stations
	Programs
	Monitoring
	EventLog
}

// Option customizes NewService.
type Option func(*graph)

// WithClock replaces time.Now as the source of evaluation instants.
func WithClock(now func() time.Time) Option {
	return func(g *graph) { g.clock = now }
}

// WithLocation sets the zone that times of day and calendar dates are read in.
func WithLocation(loc *time.Location) Option {
	return func(g *graph) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// NewService wires the repositories around cfg, the graph loaded at startup.
func NewService(repos *repository.Repository, cfg *irrigation.Config, log *logger.Logger, opts ...Option) *Service {
	g := newGraph(cfg, repos.Config, repos.Events, log, opts...)
	return &Service{
		Stations:   NewStationService(g),
		Programs:   NewProgramService(g),
		Monitoring: NewMonitoringService(g),
		EventLog:   NewEventLogService(repos.Events),
	}
}

// LoadOrInit returns the stored graph. When the store has never been written
// it saves and returns a graph of n default stations; created reports that case.
func LoadOrInit(ctx context.Context, store repository.ConfigStore, n int) (cfg *irrigation.Config, created bool, err error) {
	cfg, err = store.LoadAll(ctx)
	if err != nil {
		return nil, false, err
	}
	if cfg != nil {
		return cfg, false, nil
	}
	cfg = irrigation.DefaultConfig(n)
	if err := store.SaveAll(ctx, cfg); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
