package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/logger"
	"controlling_irrigation/internal/metrics"
	"controlling_irrigation/internal/models"
	"controlling_irrigation/internal/repository"
)

// graph is the in-memory station graph shared by the services. All access
// goes through mu; the store is rewritten after every successful change.
type graph struct {
	mu     sync.Mutex
	cfg    *irrigation.Config
	store  repository.ConfigStore
	events repository.EventRepo
	log    *logger.Logger
	clock  func() time.Time
	loc    *time.Location
}

func newGraph(cfg *irrigation.Config, store repository.ConfigStore, events repository.EventRepo, log *logger.Logger, opts ...Option) *graph {
	if cfg == nil {
		cfg = irrigation.NewConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	g := &graph{
		cfg:    cfg,
		store:  store,
		events: events,
		log:    log,
		clock:  time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// now samples the evaluation instant in the configured location.
func (g *graph) now() time.Time {
	return g.clock().In(g.loc)
}

// mutation changes a working copy of the graph and describes what it did.
type mutation func(cfg *irrigation.Config) (models.StationEvent, error)

// mutate applies fn to a copy of the graph, persists the copy and only then
// makes it current. A failing fn or save leaves the graph untouched.
func (g *graph) mutate(ctx context.Context, fn mutation) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.cfg.Clone()
	ev, err := fn(next)
	if err != nil {
		return err
	}
	if err := g.store.SaveAll(ctx, next); err != nil {
		metrics.IncStoreError("save")
		g.log.Errorw("store_save_failed", "type", ev.Type, "err", err)
		return fmt.Errorf("save config: %w", err)
	}
	g.cfg = next
	g.record(ctx, ev)
	return nil
}

// record appends ev to the activity log. The change is already persisted,
// so a failed append is only logged.
func (g *graph) record(ctx context.Context, ev models.StationEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = g.clock().UTC()
	}
	metrics.IncConfigMutation(ev.Type)
	if g.events == nil {
		return
	}
	if err := g.events.Append(ctx, ev); err != nil {
		metrics.IncStoreError("append_event")
		g.log.Warnw("event_append_failed", "type", ev.Type, "station_id", ev.StationID, "err", err)
	}
}

// view runs fn against the live graph under the lock.
func (g *graph) view(fn func(cfg *irrigation.Config) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.cfg)
}

func station(cfg *irrigation.Config, id int) (*irrigation.Station, error) {
	s, ok := cfg.Station(id)
	if !ok {
		return nil, irrigation.NotFoundError("station %d", id)
	}
	return s, nil
}

func program(cfg *irrigation.Config, stationID, programID int) (*irrigation.Program, error) {
	s, err := station(cfg, stationID)
	if err != nil {
		return nil, err
	}
	p, ok := s.Program(programID)
	if !ok {
		return nil, irrigation.NotFoundError("program %d of station %d", programID, stationID)
	}
	return p, nil
}
