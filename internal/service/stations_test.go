package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/models"
)

func TestLoadOrInit_UsesStoredGraph(t *testing.T) {
	store := &fakeStore{saved: irrigation.DefaultConfig(2)}
	cfg, created, err := LoadOrInit(context.Background(), store, 6)
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}
	if created || len(cfg.Stations) != 2 || store.saves != 0 {
		t.Fatalf("expected stored graph, got created=%v stations=%d saves=%d", created, len(cfg.Stations), store.saves)
	}
}

func TestLoadOrInit_LoadError(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("db down")}
	if _, _, err := LoadOrInit(context.Background(), store, 6); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStationService_AddDeleteReusesLowestID(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	if err := f.svc.DeleteStation(ctx, 2); err != nil {
		t.Fatalf("DeleteStation: %v", err)
	}
	st, err := f.svc.AddStation(ctx)
	if err != nil {
		t.Fatalf("AddStation: %v", err)
	}
	if st.ID != 2 {
		t.Fatalf("new station id = %d, want 2", st.ID)
	}
	if len(st.Programs) != 1 || st.Enabled {
		t.Fatalf("new station should be a disabled default: %+v", st)
	}

	want := []string{models.EventStationDeleted, models.EventStationAdded}
	if got := f.events.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if f.store.saves != 3 {
		t.Fatalf("saves = %d, want 3", f.store.saves)
	}
	if _, ok := f.store.saved.Station(2); !ok {
		t.Fatalf("store should hold the re-added station")
	}
}

func TestStationService_UnknownStation(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	checks := map[string]error{
		"delete":      f.svc.DeleteStation(ctx, 9),
		"name":        f.svc.SetStationName(ctx, 9, "x"),
		"description": f.svc.SetStationDescription(ctx, 9, "x"),
		"enable":      f.svc.SetStationEnabled(ctx, 9, true),
		"clear":       f.svc.ClearOverride(ctx, 9),
	}
	for name, err := range checks {
		if !errors.Is(err, irrigation.ErrNotFound) {
			t.Fatalf("%s: want ErrNotFound, got %v", name, err)
		}
	}
	if _, err := f.svc.GetStation(ctx, 9); !errors.Is(err, irrigation.ErrNotFound) {
		t.Fatalf("get: want ErrNotFound, got %v", err)
	}
	if f.store.saves != 1 || len(f.events.types()) != 0 {
		t.Fatalf("failed mutations must not persist or log: saves=%d events=%v", f.store.saves, f.events.types())
	}
}

func TestStationService_SaveFailureKeepsGraph(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	f.store.saveErr = errors.New("disk full")
	if err := f.svc.SetStationName(ctx, 1, "lawn"); err == nil {
		t.Fatalf("expected save error")
	}

	st, err := f.svc.GetStation(ctx, 1)
	if err != nil {
		t.Fatalf("GetStation: %v", err)
	}
	if st.Name != "" {
		t.Fatalf("name changed despite failed save: %q", st.Name)
	}
	if len(f.events.types()) != 0 {
		t.Fatalf("no event expected, got %v", f.events.types())
	}
}

func TestStationService_EventAppendFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, 1)
	f.events.appendErr = errors.New("log table locked")

	if err := f.svc.SetStationDescription(context.Background(), 1, "front lawn"); err != nil {
		t.Fatalf("mutation should succeed, got %v", err)
	}
	if f.store.saved.Stations[1].Description != "front lawn" {
		t.Fatalf("description not persisted")
	}
}

func TestStationService_EventCarriesFieldAndTime(t *testing.T) {
	f := newFixture(t, 1)
	start := time.Now().UTC()
	f.clock.Set(start)

	if err := f.svc.SetStationEnabled(context.Background(), 1, true); err != nil {
		t.Fatalf("SetStationEnabled: %v", err)
	}
	ev := f.events.appended[0]
	if ev.Type != models.EventStationUpdated || ev.StationID != 1 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	meta, ok := ev.Metadata.(map[string]any)
	if !ok || meta["field"] != "enabled" || meta["value"] != true {
		t.Fatalf("unexpected metadata: %#v", ev.Metadata)
	}
	assertWithinTimeWindow(t, ev.OccurredAt, start, start)
}

func TestStationService_Override(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	now := f.clock.Now()

	err := f.svc.SetOverride(ctx, 1, OverrideParams{StartTime: now, Duration: 0, Type: irrigation.OverrideOn, Enabled: true})
	if !errors.Is(err, irrigation.ErrInvalidInput) {
		t.Fatalf("zero duration: want ErrInvalidInput, got %v", err)
	}

	if err := f.svc.SetStationEnabled(ctx, 1, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := f.svc.SetOverride(ctx, 1, OverrideParams{StartTime: now, Duration: time.Hour, Type: irrigation.OverrideOn, Enabled: true}); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	active, err := f.svc.IsActive(ctx, 1)
	if err != nil || !active {
		t.Fatalf("override on should activate station: active=%v err=%v", active, err)
	}
	if f.store.saved.Stations[1].Override == nil {
		t.Fatalf("override not persisted")
	}

	if err := f.svc.ClearOverride(ctx, 1); err != nil {
		t.Fatalf("ClearOverride: %v", err)
	}
	active, _ = f.svc.IsActive(ctx, 1)
	if active {
		t.Fatalf("station should be idle once the override is cleared")
	}

	want := []string{models.EventStationUpdated, models.EventOverrideSet, models.EventOverrideCleared}
	if got := f.events.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestStationService_SnapshotIsACopy(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	snap, err := f.svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	snap.Stations[1].Name = "mutated"
	snap.DeleteStation(2)

	again, _ := f.svc.Snapshot(ctx)
	if again.Stations[1].Name != "" || len(again.Stations) != 2 {
		t.Fatalf("snapshot leaked into the live graph: %+v", again.Stations)
	}
}

func TestStationService_ReloadCarriesProgramState(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	enableDefaultProgram(t, f, 1, 1)

	f.clock.Set(time.Date(2025, 4, 1, 8, 10, 0, 0, time.UTC))
	if active, _ := f.svc.IsActive(ctx, 1); !active {
		t.Fatalf("station should be active at 08:10")
	}

	// operator edits the stored graph out of band
	f.store.saved.Stations[1].Name = "edited"
	f.store.saved.Stations[1].Programs[1].LastTriggered = nil

	if err := f.svc.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	st, _ := f.svc.GetStation(ctx, 1)
	if st.Name != "edited" {
		t.Fatalf("reload did not pick up the stored graph")
	}

	f.clock.Set(time.Date(2025, 4, 1, 8, 20, 0, 0, time.UTC))
	sum, err := f.svc.Status(ctx, 1)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if sum.ProgramStates[1] != irrigation.StateActivated {
		t.Fatalf("program state = %s, want activated", sum.ProgramStates[1])
	}
	p, _ := f.svc.GetProgram(ctx, 1, 1)
	want := time.Date(2025, 4, 1, 8, 10, 0, 0, time.UTC)
	if p.LastTriggered == nil || !p.LastTriggered.Equal(want) {
		t.Fatalf("last_triggered = %v, want %v", p.LastTriggered, want)
	}

	types := f.events.types()
	if types[len(types)-1] != models.EventConfigReloaded {
		t.Fatalf("last event = %s, want CONFIG_RELOADED", types[len(types)-1])
	}
}

func TestStationService_ReloadWithoutStoredGraph(t *testing.T) {
	f := newFixture(t, 1)
	f.store.saved = nil
	if err := f.svc.Reload(context.Background()); !errors.Is(err, irrigation.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
