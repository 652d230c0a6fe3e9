/*
store.go - Persistence and collaborator interfaces

PURPOSE:
  The engine never persists directly. Stores implement these interfaces;
  the service layer (service.go) composes them. Implementations:

  - roster/store:  In-memory (tests, dev)
  - store/sqlite:  SQLite-backed (production)

VERSIONING:
  Every (operation, year, month) roster carries an integer version that
  increments on each committed mutation. SetMonthRoster rejects a commit
  whose expected version is stale, turning the legacy silent
  last-writer-wins overwrite into a detectable conflict.

SEE ALSO:
  - service.go: The only writer that should go through these interfaces
  - store/sqlite/sqlite.go: Production implementation
*/
package roster

import (
	"context"
	"strings"
	"time"
)

// =============================================================================
// ROSTER STORE
// =============================================================================

// RosterStore reads and writes month rosters with optimistic versioning.
type RosterStore interface {
	// GetMonthRoster returns a snapshot of one operation's month and its
	// current version. A month never written yet returns an empty roster
	// at version 0, not an error.
	GetMonthRoster(ctx context.Context, op Operation, key MonthKey) (*MonthRoster, int64, error)

	// SetMonthRoster commits a full month snapshot. expected must equal
	// the current version or the commit fails with ErrVersionConflict.
	// Returns the new version.
	SetMonthRoster(ctx context.Context, month *MonthRoster, expected int64) (int64, error)

	// GetRosterSet returns snapshots of both operations for one month.
	GetRosterSet(ctx context.Context, key MonthKey) (*OperationRosterSet, error)
}

// =============================================================================
// OFFICER DIRECTORY
// =============================================================================

// Officer is a directory entry. The display name is the identity used
// throughout the engine; there is no numeric officer ID.
type Officer struct {
	Name      string
	CreatedAt time.Time
}

// NormalizeDisplayName trims and collapses whitespace on import. The
// exact-match semantics of quota and conflict logic depend on names
// being stored in this trimmed form.
func NormalizeDisplayName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// OfficerDirectory supplies the valid officer names for slot assignment.
// The service validates against it when configured; a nil directory
// preserves the legacy accept-any-string behavior.
type OfficerDirectory interface {
	ListOfficers(ctx context.Context) ([]Officer, error)
	HasOfficer(ctx context.Context, name string) (bool, error)
	SaveOfficer(ctx context.Context, o Officer) error
	DeleteOfficer(ctx context.Context, name string) error
}

// =============================================================================
// CALENDAR PROVIDER
// =============================================================================

// CalendarProvider supplies the hand-authored ordinary-duty calendar for
// a month. ErrCalendarUnavailable puts the conflict report in degraded
// mode (double-booking checks only), never fails it.
type CalendarProvider interface {
	OrdinaryCalendarFor(ctx context.Context, key MonthKey) (OrdinaryCalendar, error)
}
