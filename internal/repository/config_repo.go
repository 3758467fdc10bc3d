package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"controlling_irrigation/internal/irrigation"
)

// ConfigSQLite stores the station graph in normalized tables and rewrites it
// in one transaction on every save.
type ConfigSQLite struct {
	db *sql.DB
}

func NewConfigSQLite(db *sql.DB) *ConfigSQLite {
	return &ConfigSQLite{db: db}
}

// Ensure implementation of ConfigStore interface at compile time.
var _ ConfigStore = (*ConfigSQLite)(nil)

const (
	configMetaRowID = 1

	selectConfigMetaSQL = `SELECT saved_at FROM config_meta WHERE id = ?`
	upsertConfigMetaSQL = `
		INSERT INTO config_meta (id, saved_at) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at=excluded.saved_at
	`

	deleteOverridesSQL = `DELETE FROM overrides`
	deleteProgramsSQL  = `DELETE FROM programs`
	deleteStationsSQL  = `DELETE FROM stations`

	insertStationSQL = `INSERT INTO stations (id, name, description, enabled) VALUES (?, ?, ?, ?)`
	insertProgramSQL = `
		INSERT INTO programs (station_id, id, name, description, trigger_rule, start_time, duration,
			week_day, enabled, enabled_after, enabled_before, last_triggered)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	insertOverrideSQL = `INSERT INTO overrides (station_id, start_time, duration, type, enabled) VALUES (?, ?, ?, ?, ?)`

	selectStationsSQL = `SELECT id, name, description, enabled FROM stations ORDER BY id`
	selectProgramsSQL = `
		SELECT station_id, id, name, description, trigger_rule, start_time, duration,
			week_day, enabled, enabled_after, enabled_before, last_triggered
		FROM programs ORDER BY station_id, id
	`
	selectOverridesSQL = `SELECT station_id, start_time, duration, type, enabled FROM overrides`
)

// nullableUTC converts an optional instant to a driver value, always in UTC.
func nullableUTC(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// SaveAll replaces the stored graph with cfg.
func (r *ConfigSQLite) SaveAll(ctx context.Context, cfg *irrigation.Config) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{deleteOverridesSQL, deleteProgramsSQL, deleteStationsSQL} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear config tables: %w", err)
		}
	}

	for _, sid := range cfg.StationIDs() {
		s := cfg.Stations[sid]
		if _, err = tx.ExecContext(ctx, insertStationSQL, sid, s.Name, s.Description, s.Enabled); err != nil {
			return fmt.Errorf("insert station %d: %w", sid, err)
		}
		for _, pid := range s.ProgramIDs() {
			if err = insertProgram(ctx, tx, sid, s.Programs[pid]); err != nil {
				return err
			}
		}
		if o := s.Override; o != nil {
			if _, err = tx.ExecContext(ctx, insertOverrideSQL,
				sid, o.StartTime.UTC(), o.Duration.String(), o.Type.String(), o.Enabled,
			); err != nil {
				return fmt.Errorf("insert override for station %d: %w", sid, err)
			}
		}
	}

	if _, err = tx.ExecContext(ctx, upsertConfigMetaSQL, configMetaRowID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update config meta: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

func insertProgram(ctx context.Context, tx *sql.Tx, sid int, p *irrigation.Program) error {
	var weekDay any
	if p.WeekDay != nil {
		weekDay = p.WeekDay.String()
	}
	_, err := tx.ExecContext(ctx, insertProgramSQL,
		sid,
		p.ID,
		p.Name,
		p.Description,
		p.Trigger.String(),
		p.StartTime.String(),
		p.Duration.String(),
		weekDay,
		p.Enabled,
		nullableUTC(p.EnabledAfter),
		nullableUTC(p.EnabledBefore),
		nullableUTC(p.LastTriggered),
	)
	if err != nil {
		return fmt.Errorf("insert program %d/%d: %w", sid, p.ID, err)
	}
	return nil
}

// LoadAll reads the stored graph, or returns (nil, nil) if it was never saved.
func (r *ConfigSQLite) LoadAll(ctx context.Context) (*irrigation.Config, error) {
	var savedAt time.Time
	if err := r.db.QueryRowContext(ctx, selectConfigMetaSQL, configMetaRowID).Scan(&savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // nothing saved yet
		}
		return nil, fmt.Errorf("select config meta: %w", err)
	}

	cfg := irrigation.NewConfig()
	if err := r.loadStations(ctx, cfg); err != nil {
		return nil, err
	}
	if err := r.loadPrograms(ctx, cfg); err != nil {
		return nil, err
	}
	if err := r.loadOverrides(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *ConfigSQLite) loadStations(ctx context.Context, cfg *irrigation.Config) error {
	rows, err := r.db.QueryContext(ctx, selectStationsSQL)
	if err != nil {
		return fmt.Errorf("select stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s := &irrigation.Station{Programs: make(map[int]*irrigation.Program)}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Enabled); err != nil {
			return fmt.Errorf("scan station: %w", err)
		}
		cfg.Stations[s.ID] = s
	}
	return rows.Err()
}

func (r *ConfigSQLite) loadPrograms(ctx context.Context, cfg *irrigation.Config) error {
	rows, err := r.db.QueryContext(ctx, selectProgramsSQL)
	if err != nil {
		return fmt.Errorf("select programs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sid                          int
			p                            irrigation.Program
			trigger, startTime, duration string
			weekDay                      sql.NullString
			after, before, last          sql.NullTime
		)
		if err := rows.Scan(&sid, &p.ID, &p.Name, &p.Description, &trigger, &startTime, &duration,
			&weekDay, &p.Enabled, &after, &before, &last); err != nil {
			return fmt.Errorf("scan program: %w", err)
		}
		if err := decodeProgramColumns(&p, trigger, startTime, duration, weekDay); err != nil {
			return fmt.Errorf("program %d/%d: %w", sid, p.ID, err)
		}
		p.EnabledAfter = timePtr(after)
		p.EnabledBefore = timePtr(before)
		p.LastTriggered = timePtr(last)

		s, ok := cfg.Station(sid)
		if !ok {
			return fmt.Errorf("program %d references missing station %d", p.ID, sid)
		}
		s.Programs[p.ID] = &p
	}
	return rows.Err()
}

func decodeProgramColumns(p *irrigation.Program, trigger, startTime, duration string, weekDay sql.NullString) error {
	var err error
	if p.Trigger, err = irrigation.ParseTrigger(trigger); err != nil {
		return err
	}
	if p.StartTime, err = irrigation.ParseClockTime(startTime); err != nil {
		return err
	}
	if p.Duration, err = irrigation.ParseDuration(duration); err != nil {
		return err
	}
	if weekDay.Valid && weekDay.String != "" {
		d, err := irrigation.ParseDay(weekDay.String)
		if err != nil {
			return err
		}
		p.WeekDay = &d
	}
	return nil
}

func (r *ConfigSQLite) loadOverrides(ctx context.Context, cfg *irrigation.Config) error {
	rows, err := r.db.QueryContext(ctx, selectOverridesSQL)
	if err != nil {
		return fmt.Errorf("select overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sid           int
			o             irrigation.Override
			duration, typ string
		)
		if err := rows.Scan(&sid, &o.StartTime, &duration, &typ, &o.Enabled); err != nil {
			return fmt.Errorf("scan override: %w", err)
		}
		if o.Duration, err = irrigation.ParseDuration(duration); err != nil {
			return fmt.Errorf("override for station %d: %w", sid, err)
		}
		if o.Type, err = irrigation.ParseOverrideType(typ); err != nil {
			return fmt.Errorf("override for station %d: %w", sid, err)
		}
		o.StartTime = o.StartTime.UTC()

		s, ok := cfg.Station(sid)
		if !ok {
			return fmt.Errorf("override references missing station %d", sid)
		}
		s.Override = &o
	}
	return rows.Err()
}
