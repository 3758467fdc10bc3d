package irrigation

import (
	"reflect"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig(DefaultStationCount)
	if got := c.StationIDs(); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("ids=%v", got)
	}
	s, ok := c.Station(3)
	if !ok || s.Enabled || len(s.Programs) != 1 {
		t.Fatalf("unexpected default station: %+v", s)
	}
}

func TestConfig_StationIDReuse(t *testing.T) {
	c := DefaultConfig(3)
	c.DeleteStation(2)
	c.DeleteStation(7)
	if s := c.AddStation(); s.ID != 2 {
		t.Fatalf("expected id 2, got %d", s.ID)
	}
	if s := c.AddStation(); s.ID != 4 {
		t.Fatalf("expected id 4, got %d", s.ID)
	}

	empty := &Config{}
	if s := empty.AddStation(); s.ID != 1 {
		t.Fatalf("expected id 1 on empty config, got %d", s.ID)
	}
}

func TestConfig_ActiveStationsUsesOneInstant(t *testing.T) {
	c := DefaultConfig(2)
	at := time.Date(2025, 4, 6, 17, 10, 0, 0, time.UTC)
	s1, _ := c.Station(1)
	s1.SetEnabled()
	_ = s1.SetOverride(at.Add(-time.Minute), time.Hour, OverrideOn, true)

	got := c.ActiveStations(at)
	want := map[int]bool{1: true, 2: false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, sum := range c.Status(at) {
		if !sum.EvaluatedAt.Equal(at) {
			t.Fatalf("station %d evaluated at %v", sum.ID, sum.EvaluatedAt)
		}
	}
}

func TestConfig_Normalize(t *testing.T) {
	c := &Config{Stations: map[int]*Station{
		4: {Programs: map[int]*Program{2: {}, 3: nil}},
		5: nil,
	}}
	c.Normalize()
	s, ok := c.Station(4)
	if !ok || s.ID != 4 {
		t.Fatalf("station id not normalized: %+v", s)
	}
	if _, ok := c.Station(5); ok {
		t.Fatalf("nil station should be dropped")
	}
	if p, ok := s.Program(2); !ok || p.ID != 2 || len(s.Programs) != 1 {
		t.Fatalf("programs not normalized: %+v", s.Programs)
	}
}
