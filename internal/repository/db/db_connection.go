package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

// config_meta holds a single row once the graph has been saved at least once,
// which tells "never configured" apart from "every station deleted".
const schemaConfigMeta = `
CREATE TABLE IF NOT EXISTS config_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    saved_at TIMESTAMP NOT NULL
);
`

const schemaStations = `
CREATE TABLE IF NOT EXISTS stations (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    enabled BOOLEAN NOT NULL
);
`

const schemaPrograms = `
CREATE TABLE IF NOT EXISTS programs (
    station_id INTEGER NOT NULL REFERENCES stations(id) ON DELETE CASCADE,
    id INTEGER NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    trigger_rule TEXT NOT NULL,
    start_time TEXT NOT NULL,
    duration TEXT NOT NULL,
    week_day TEXT,
    enabled BOOLEAN NOT NULL,
    enabled_after TIMESTAMP,
    enabled_before TIMESTAMP,
    last_triggered TIMESTAMP,
    PRIMARY KEY (station_id, id)
);
`

const schemaOverrides = `
CREATE TABLE IF NOT EXISTS overrides (
    station_id INTEGER PRIMARY KEY REFERENCES stations(id) ON DELETE CASCADE,
    start_time TIMESTAMP NOT NULL,
    duration TEXT NOT NULL,
    type TEXT NOT NULL,
    enabled BOOLEAN NOT NULL
);
`

const schemaStationEvents = `
CREATE TABLE IF NOT EXISTS station_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    station_id INTEGER,
    program_id INTEGER,
    message TEXT NOT NULL,
    meta TEXT
);
`

const indexStationEvents = `
CREATE INDEX IF NOT EXISTS idx_station_events_occurred_at ON station_events (occurred_at);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaConfigMeta,
		schemaStations,
		schemaPrograms,
		schemaOverrides,
		schemaStationEvents,
		indexStationEvents,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
