package models

import "time"

// Activity log event types.
const (
	EventStationAdded    = "STATION_ADDED"
	EventStationDeleted  = "STATION_DELETED"
	EventStationUpdated  = "STATION_UPDATED"
	EventOverrideSet     = "OVERRIDE_SET"
	EventOverrideCleared = "OVERRIDE_CLEARED"
	EventProgramAdded    = "PROGRAM_ADDED"
	EventProgramDeleted  = "PROGRAM_DELETED"
	EventProgramUpdated  = "PROGRAM_UPDATED"
	EventConfigReloaded  = "CONFIG_RELOADED"
)

// StationEvent is a single activity log entry.
type StationEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	StationID   int       `json:"station_id,omitempty"`
	ProgramID   int       `json:"program_id,omitempty"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
