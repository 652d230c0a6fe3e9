/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The api package maps these onto HTTP status codes.

ERROR CATEGORIES:
  1. Gate errors - Quota and slot-position rejections (client errors)
  2. Concurrency errors - Optimistic version check failures
  3. Lookup errors - Missing rosters, officers, calendars

USAGE:
  Callers branch with errors.Is / errors.As:

    if errors.Is(err, roster.ErrQuotaExceeded) {
        var qe *roster.QuotaExceededError
        errors.As(err, &qe)
        // surface qe.CurrentTotal and qe.Cap to the user
    }

SEE ALSO:
  - quota.go: Produces QuotaExceededError
  - service.go: Produces SlotPositionError and ErrVersionConflict
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrQuotaExceeded is returned when an assignment would push an
	// officer past the monthly distinct-day cap. The mutation is not
	// applied; this is a hard block, not a warning.
	ErrQuotaExceeded = errors.New("monthly quota exceeded")

	// ErrInvalidSlotPosition is returned when the target position is
	// outside the operation's fixed capacity. Rejected before any change.
	ErrInvalidSlotPosition = errors.New("invalid slot position")

	// ErrInvalidDay is returned when the target day does not exist in the
	// roster's month.
	ErrInvalidDay = errors.New("day outside month")

	// ErrUnknownOperation is returned for an operation with no configured
	// slot capacity.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrVersionConflict is returned when the optimistic version check
	// detects a concurrent edit of the same month roster.
	ErrVersionConflict = errors.New("roster version conflict")

	// ErrOfficerNotFound is returned when directory validation is enabled
	// and the assigned name is not a known officer.
	ErrOfficerNotFound = errors.New("officer not in directory")

	// ErrRosterNotFound is returned by stores when no roster exists for
	// the requested operation and month.
	ErrRosterNotFound = errors.New("roster not found")

	// ErrCalendarUnavailable is returned by providers that cannot supply
	// the ordinary-duty calendar. The conflict detector treats this as a
	// degraded mode, never a failure.
	ErrCalendarUnavailable = errors.New("ordinary calendar unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// QuotaExceededError reports the officer's standing when the cap blocked
// an assignment. CurrentTotal counts distinct days across both operations.
type QuotaExceededError struct {
	Officer      string
	CurrentTotal int
	Cap          int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %s already has %d of %d days", e.Officer, e.CurrentTotal, e.Cap)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// SlotPositionError reports an out-of-range slot index.
type SlotPositionError struct {
	Operation Operation
	Position  int
	Capacity  int
}

func (e *SlotPositionError) Error() string {
	return fmt.Sprintf("position %d out of range for %s (capacity %d)", e.Position, e.Operation, e.Capacity)
}

func (e *SlotPositionError) Unwrap() error { return ErrInvalidSlotPosition }

// VersionConflictError reports a failed optimistic commit.
type VersionConflictError struct {
	Operation Operation
	Key       MonthKey
	Expected  int64
	Actual    int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s %s: have %d, want %d", e.Operation, e.Key, e.Actual, e.Expected)
}

func (e *VersionConflictError) Unwrap() error { return ErrVersionConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is a rejection of client input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrInvalidSlotPosition) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrUnknownOperation) ||
		errors.Is(err, ErrOfficerNotFound)
}

// IsRetryable returns true if the operation might succeed when replayed
// against a fresh roster snapshot.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRosterNotFound) ||
		errors.Is(err, ErrOfficerNotFound)
}
