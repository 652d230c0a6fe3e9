/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements roster.RosterStore, roster.OfficerDirectory and
  roster.CalendarProvider using SQLite. In production on PostgreSQL the
  same patterns apply - only minor SQL dialect differences.

KEY TABLES:
  officers:          Directory of valid display names
  roster_slots:      One row per occupied slot (operation, month, day, position)
  roster_versions:   Optimistic version counter per (operation, year, month)
  ordinary_calendar: Authored rotation table per month
  roster_changes:    Append-only log of committed roster mutations

VERSIONING:
  SetMonthRoster runs inside one transaction: verify the expected
  version, replace the month's slot rows, bump the counter, log the
  change. A stale expected version rolls back with ErrVersionConflict,
  so concurrent editors can never silently overwrite each other.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/escala.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := roster.NewService(roster.DefaultConfig(), store, store)

SEE ALSO:
  - roster/store.go: Interface definitions
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/escala/duty-engine/corps"
	"github.com/escala/duty-engine/roster"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ roster.RosterStore = (*Store)(nil)
var _ roster.OfficerDirectory = (*Store)(nil)
var _ roster.CalendarProvider = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS officers (
		name TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	);

	-- One row per OCCUPIED slot; vacant slots have no row.
	CREATE TABLE IF NOT EXISTS roster_slots (
		operation TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		position INTEGER NOT NULL,
		officer TEXT NOT NULL,
		PRIMARY KEY (operation, year, month, day, position)
	);

	CREATE INDEX IF NOT EXISTS idx_roster_slots_officer
		ON roster_slots(officer, year, month);

	-- Optimistic concurrency counter per month roster.
	CREATE TABLE IF NOT EXISTS roster_versions (
		operation TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		version INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (operation, year, month)
	);

	CREATE TABLE IF NOT EXISTS ordinary_calendar (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		group_tag TEXT NOT NULL,
		PRIMARY KEY (year, month, day, group_tag)
	);

	-- Append-only commit log. Never updated, never deleted.
	CREATE TABLE IF NOT EXISTS roster_changes (
		id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		version INTEGER NOT NULL,
		changed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_roster_changes_month
		ON roster_changes(operation, year, month);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROSTER STORE
// =============================================================================

func (s *Store) GetMonthRoster(ctx context.Context, op roster.Operation, key roster.MonthKey) (*roster.MonthRoster, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadMonth(ctx, op, key)
}

func (s *Store) loadMonth(ctx context.Context, op roster.Operation, key roster.MonthKey) (*roster.MonthRoster, int64, error) {
	month := roster.NewMonthRoster(key, op)

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, position, officer FROM roster_slots
		WHERE operation = ? AND year = ? AND month = ?`,
		string(op), key.Year, int(key.Month))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var day, position int
		var officer string
		if err := rows.Scan(&day, &position, &officer); err != nil {
			return nil, 0, err
		}
		slots := month.Days[day]
		for len(slots) <= position {
			slots = append(slots, "")
		}
		slots[position] = officer
		month.Days[day] = slots
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	version, err := s.currentVersion(ctx, op, key)
	if err != nil {
		return nil, 0, err
	}
	return month, version, nil
}

func (s *Store) currentVersion(ctx context.Context, op roster.Operation, key roster.MonthKey) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `
		SELECT version FROM roster_versions
		WHERE operation = ? AND year = ? AND month = ?`,
		string(op), key.Year, int(key.Month)).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return version, err
}

func (s *Store) SetMonthRoster(ctx context.Context, month *roster.MonthRoster, expected int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	op, key := month.Operation, month.Key

	var current int64
	err = tx.QueryRowContext(ctx, `
		SELECT version FROM roster_versions
		WHERE operation = ? AND year = ? AND month = ?`,
		string(op), key.Year, int(key.Month)).Scan(&current)
	if err == sql.ErrNoRows {
		current = 0
	} else if err != nil {
		return 0, err
	}
	if expected != current {
		return 0, &roster.VersionConflictError{Operation: op, Key: key, Expected: expected, Actual: current}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM roster_slots WHERE operation = ? AND year = ? AND month = ?`,
		string(op), key.Year, int(key.Month)); err != nil {
		return 0, err
	}

	for day, slots := range month.Days {
		if !key.ValidDay(day) {
			continue
		}
		for position, officer := range slots {
			if officer == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO roster_slots (operation, year, month, day, position, officer)
				VALUES (?, ?, ?, ?, ?, ?)`,
				string(op), key.Year, int(key.Month), day, position, officer); err != nil {
				return 0, err
			}
		}
	}

	newVersion := current + 1
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO roster_versions (operation, year, month, version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(operation, year, month) DO UPDATE SET version = excluded.version`,
		string(op), key.Year, int(key.Month), newVersion); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO roster_changes (id, operation, year, month, version, changed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), string(op), key.Year, int(key.Month), newVersion,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (s *Store) GetRosterSet(ctx context.Context, key roster.MonthKey) (*roster.OperationRosterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := roster.NewRosterSet(key)
	for _, op := range roster.Operations() {
		month, _, err := s.loadMonth(ctx, op, key)
		if err != nil {
			return nil, err
		}
		set.Rosters[op] = month
	}
	return set, nil
}

// =============================================================================
// OFFICER DIRECTORY
// =============================================================================

func (s *Store) ListOfficers(ctx context.Context) ([]roster.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name, created_at FROM officers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Officer
	for rows.Next() {
		var o roster.Officer
		var createdAt string
		if err := rows.Scan(&o.Name, &createdAt); err != nil {
			return nil, err
		}
		o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) HasOfficer(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM officers WHERE name = ?`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) SaveOfficer(ctx context.Context, o roster.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO officers (name, created_at) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING`,
		o.Name, createdAt.Format(time.RFC3339))
	return err
}

func (s *Store) DeleteOfficer(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM officers WHERE name = ?`, name)
	return err
}

// =============================================================================
// CALENDAR PROVIDER
// =============================================================================

func (s *Store) OrdinaryCalendarFor(ctx context.Context, key roster.MonthKey) (roster.OrdinaryCalendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, group_tag FROM ordinary_calendar
		WHERE year = ? AND month = ?`,
		key.Year, int(key.Month))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calendar := make(corps.OrdinaryCalendar)
	for rows.Next() {
		var day int
		var tag string
		if err := rows.Scan(&day, &tag); err != nil {
			return nil, err
		}
		calendar[day] = append(calendar[day], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(calendar) == 0 {
		return nil, roster.ErrCalendarUnavailable
	}
	return calendar, nil
}

// PutOrdinaryCalendar replaces the authored rotation table for a month.
func (s *Store) PutOrdinaryCalendar(ctx context.Context, key roster.MonthKey, calendar corps.OrdinaryCalendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM ordinary_calendar WHERE year = ? AND month = ?`,
		key.Year, int(key.Month)); err != nil {
		return err
	}
	for day, groups := range calendar {
		if !key.ValidDay(day) {
			continue
		}
		for _, tag := range groups {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO ordinary_calendar (year, month, day, group_tag)
				VALUES (?, ?, ?, ?)`,
				key.Year, int(key.Month), day, tag); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// =============================================================================
// CHANGE LOG
// =============================================================================

// Change is one committed roster mutation, from the append-only log.
type Change struct {
	ID        string
	Operation roster.Operation
	Key       roster.MonthKey
	Version   int64
	ChangedAt time.Time
}

// ListChanges returns the commit log for one month roster, newest first.
func (s *Store) ListChanges(ctx context.Context, op roster.Operation, key roster.MonthKey) ([]Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, changed_at FROM roster_changes
		WHERE operation = ? AND year = ? AND month = ?
		ORDER BY version DESC`,
		string(op), key.Year, int(key.Month))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		c := Change{Operation: op, Key: key}
		var changedAt string
		if err := rows.Scan(&c.ID, &c.Version, &changedAt); err != nil {
			return nil, err
		}
		c.ChangedAt, _ = time.Parse(time.RFC3339, changedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}
