package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/models"
	"controlling_irrigation/internal/repository"
)

// fakeStore is an in-memory ConfigStore.
type fakeStore struct {
	mu      sync.Mutex
	saved   *irrigation.Config
	saves   int
	saveErr error
	loadErr error
}

func (f *fakeStore) LoadAll(ctx context.Context) (*irrigation.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.saved == nil {
		return nil, nil
	}
	return f.saved.Clone(), nil
}

func (f *fakeStore) SaveAll(ctx context.Context, cfg *irrigation.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.saved = cfg.Clone()
	return nil
}

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	mu sync.Mutex

	appended  []models.StationEvent
	appendErr error

	// captured List input and configured output
	gotFilter repository.EventFilter
	events    []models.StationEvent
	err       error
	calls     int
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.StationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(ctx context.Context, filter repository.EventFilter) ([]models.StationEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotFilter = filter
	return f.events, f.err
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

// manualClock is a settable time source.
type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	svc    *Service
	store  *fakeStore
	events *fakeEventRepo
	clock  *manualClock
}

// newFixture wires a Service around n default stations in UTC.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	store := &fakeStore{}
	events := &fakeEventRepo{}
	clock := &manualClock{t: time.Date(2025, 4, 1, 7, 0, 0, 0, time.UTC)} // Tuesday

	cfg, created, err := LoadOrInit(context.Background(), store, n)
	if err != nil || !created {
		t.Fatalf("LoadOrInit: created=%v err=%v", created, err)
	}
	repos := &repository.Repository{Config: store, Events: events}
	svc := NewService(repos, cfg, nil, WithClock(clock.Now), WithLocation(time.UTC))
	return &fixture{svc: svc, store: store, events: events, clock: clock}
}

func assertWithinTimeWindow(t *testing.T, ts time.Time, start time.Time, end time.Time) {
	t.Helper()
	if ts.Before(start) || ts.After(end) {
		t.Fatalf("time %v not within window [%v, %v]", ts, start, end)
	}
}
