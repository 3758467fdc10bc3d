package repository

import (
	"context"
	"database/sql"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/models"
)

// ConfigStore persists the whole station graph. LoadAll returns (nil, nil)
// when nothing has been saved yet.
type ConfigStore interface {
	LoadAll(ctx context.Context) (*irrigation.Config, error)
	SaveAll(ctx context.Context, cfg *irrigation.Config) error
}

// EventFilter narrows an activity log listing. Zero values disable a condition.
type EventFilter struct {
	From      time.Time
	To        time.Time
	Type      string
	StationID int
}

type EventRepo interface {
	Append(ctx context.Context, e models.StationEvent) error
	List(ctx context.Context, f EventFilter) ([]models.StationEvent, error)
}

type Repository struct {
	Config ConfigStore
	Events EventRepo
}

// NewRepository backs both the graph and the activity log with SQLite.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Config: NewConfigSQLite(db),
		Events: NewEventSQLite(db),
	}
}
