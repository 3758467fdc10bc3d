package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/models"
	"controlling_irrigation/internal/repository"
)

// LogFilter narrows an activity log listing.
type LogFilter struct {
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Type      string    // "", "STATION_ADDED", "OVERRIDE_SET", ...
	StationID int       // 0 means every station
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f LogFilter) (repository.EventFilter, error) {
	out := repository.EventFilter{
		From:      normalizeToUTC(f.From),
		To:        normalizeToUTC(f.To),
		Type:      normalizeEventType(f.Type),
		StationID: f.StationID,
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return repository.EventFilter{}, fmt.Errorf("%w: from must not be after to", irrigation.ErrInvalidInput)
	}
	if out.StationID < 0 {
		return repository.EventFilter{}, fmt.Errorf("%w: station id %d", irrigation.ErrInvalidInput, out.StationID)
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.StationEvent, error) {
	filter, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, filter)
}
