package handlers

import (
	"context"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/models"
	"controlling_irrigation/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockStations struct {
	cfg *irrigation.Config
	err error // returned by every call when set

	added        int
	deleted      []int
	lastDesc     string
	lastName     string
	lastEnabled  *bool
	lastOverride service.OverrideParams
	cleared      int
}

func (m *mockStations) station(id int) (*irrigation.Station, error) {
	if m.err != nil {
		return nil, m.err
	}
	st, ok := m.cfg.Station(id)
	if !ok {
		return nil, irrigation.NotFoundError("station %d", id)
	}
	return st, nil
}

func (m *mockStations) Snapshot(ctx context.Context) (*irrigation.Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cfg.Clone(), nil
}

func (m *mockStations) GetStation(ctx context.Context, id int) (*irrigation.Station, error) {
	st, err := m.station(id)
	if err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

func (m *mockStations) AddStation(ctx context.Context) (*irrigation.Station, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.added++
	return m.cfg.AddStation().Clone(), nil
}

func (m *mockStations) DeleteStation(ctx context.Context, id int) error {
	if _, err := m.station(id); err != nil {
		return err
	}
	m.deleted = append(m.deleted, id)
	m.cfg.DeleteStation(id)
	return nil
}

func (m *mockStations) SetStationDescription(ctx context.Context, id int, desc string) error {
	st, err := m.station(id)
	if err != nil {
		return err
	}
	m.lastDesc = desc
	st.UpdateDescription(desc)
	return nil
}

func (m *mockStations) SetStationName(ctx context.Context, id int, name string) error {
	st, err := m.station(id)
	if err != nil {
		return err
	}
	m.lastName = name
	st.SetName(name)
	return nil
}

func (m *mockStations) SetStationEnabled(ctx context.Context, id int, enabled bool) error {
	st, err := m.station(id)
	if err != nil {
		return err
	}
	m.lastEnabled = &enabled
	st.Enabled = enabled
	return nil
}

func (m *mockStations) SetOverride(ctx context.Context, id int, p service.OverrideParams) error {
	st, err := m.station(id)
	if err != nil {
		return err
	}
	m.lastOverride = p
	return st.SetOverride(p.StartTime, p.Duration, p.Type, p.Enabled)
}

func (m *mockStations) ClearOverride(ctx context.Context, id int) error {
	st, err := m.station(id)
	if err != nil {
		return err
	}
	m.cleared++
	st.ClearOverride()
	return nil
}

func (m *mockStations) Reload(ctx context.Context) error { return m.err }

type mockPrograms struct {
	cfg *irrigation.Config
	err error

	lastChange service.ProgramChange
	updates    int
}

func (m *mockPrograms) program(sid, pid int) (*irrigation.Program, error) {
	if m.err != nil {
		return nil, m.err
	}
	st, ok := m.cfg.Station(sid)
	if !ok {
		return nil, irrigation.NotFoundError("station %d", sid)
	}
	p, ok := st.Program(pid)
	if !ok {
		return nil, irrigation.NotFoundError("program %d", pid)
	}
	return p, nil
}

func (m *mockPrograms) ListPrograms(ctx context.Context, sid int) ([]*irrigation.Program, error) {
	if m.err != nil {
		return nil, m.err
	}
	st, ok := m.cfg.Station(sid)
	if !ok {
		return nil, irrigation.NotFoundError("station %d", sid)
	}
	var out []*irrigation.Program
	for _, id := range st.ProgramIDs() {
		out = append(out, st.Programs[id].Clone())
	}
	return out, nil
}

func (m *mockPrograms) GetProgram(ctx context.Context, sid, pid int) (*irrigation.Program, error) {
	p, err := m.program(sid, pid)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (m *mockPrograms) AddProgram(ctx context.Context, sid int) (*irrigation.Program, error) {
	if m.err != nil {
		return nil, m.err
	}
	st, ok := m.cfg.Station(sid)
	if !ok {
		return nil, irrigation.NotFoundError("station %d", sid)
	}
	return st.AddProgram().Clone(), nil
}

func (m *mockPrograms) DeleteProgram(ctx context.Context, sid, pid int) error {
	if _, err := m.program(sid, pid); err != nil {
		return err
	}
	m.cfg.Stations[sid].DeleteProgram(pid)
	return nil
}

// UpdateProgram records the change and returns the program as stored; the
// change itself is applied by the real service.
func (m *mockPrograms) UpdateProgram(ctx context.Context, sid, pid int, change service.ProgramChange) (*irrigation.Program, error) {
	p, err := m.program(sid, pid)
	if err != nil {
		return nil, err
	}
	m.updates++
	m.lastChange = change
	return p.Clone(), nil
}

type mockMonitoring struct {
	sums   []irrigation.StationSummary
	active map[int]bool
	err    error
	calls  int
}

func (m *mockMonitoring) Statuses(ctx context.Context) ([]irrigation.StationSummary, error) {
	m.calls++
	return m.sums, m.err
}

func (m *mockMonitoring) Status(ctx context.Context, id int) (irrigation.StationSummary, error) {
	m.calls++
	if m.err != nil {
		return irrigation.StationSummary{}, m.err
	}
	for _, s := range m.sums {
		if s.ID == id {
			return s, nil
		}
	}
	return irrigation.StationSummary{}, irrigation.NotFoundError("station %d", id)
}

func (m *mockMonitoring) IsActive(ctx context.Context, id int) (bool, error) {
	s, err := m.Status(ctx, id)
	if err != nil {
		return false, err
	}
	return s.Active(), nil
}

func (m *mockMonitoring) ActiveStations(ctx context.Context) (map[int]bool, error) {
	m.calls++
	return m.active, m.err
}

type mockEventLog struct {
	resp       []models.StationEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.StationEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
