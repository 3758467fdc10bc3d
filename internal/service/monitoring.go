package service

import (
	"context"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/metrics"
)

const (
	scopeAll     = "all"
	scopeStation = "station"
)

// MonitoringService evaluates the live graph on demand. Evaluation advances
// program state in memory only; nothing is persisted.
type MonitoringService struct {
	g *graph
}

func NewMonitoringService(g *graph) *MonitoringService {
	return &MonitoringService{g: g}
}

// Statuses evaluates every station at one instant, in id order.
func (s *MonitoringService) Statuses(ctx context.Context) ([]irrigation.StationSummary, error) {
	var out []irrigation.StationSummary
	err := s.g.view(func(cfg *irrigation.Config) error {
		out = cfg.Status(s.g.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveEvaluation(scopeAll)
	for _, sum := range out {
		metrics.SetStationActive(sum.ID, sum.Active())
	}
	return out, nil
}

func (s *MonitoringService) Status(ctx context.Context, stationID int) (irrigation.StationSummary, error) {
	var out irrigation.StationSummary
	err := s.g.view(func(cfg *irrigation.Config) error {
		st, err := station(cfg, stationID)
		if err != nil {
			return err
		}
		out = st.Status(s.g.now())
		return nil
	})
	if err != nil {
		return irrigation.StationSummary{}, err
	}
	metrics.ObserveEvaluation(scopeStation)
	metrics.SetStationActive(out.ID, out.Active())
	return out, nil
}

func (s *MonitoringService) IsActive(ctx context.Context, stationID int) (bool, error) {
	sum, err := s.Status(ctx, stationID)
	if err != nil {
		return false, err
	}
	return sum.Active(), nil
}

// ActiveStations maps every station id to its verdict at one instant.
func (s *MonitoringService) ActiveStations(ctx context.Context) (map[int]bool, error) {
	sums, err := s.Statuses(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(sums))
	for _, sum := range sums {
		out[sum.ID] = sum.Active()
	}
	return out, nil
}
