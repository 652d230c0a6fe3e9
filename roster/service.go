/*
service.go - Gated slot mutations

PURPOSE:
  The single write path for rosters. Every assignment goes through, in
  order: structural validation (operation, day, position), directory
  validation (when configured), the quota gate, then an optimistic
  commit against the store. A rejection at any stage leaves the stored
  roster byte-for-byte untouched.

CLEARING:
  Assigning the empty string clears the slot. Clears skip the quota
  gate entirely - freeing a day is always allowed.

CONCURRENCY:
  Assignment.Version lets callers pin the roster version they edited
  against; VersionAny accepts whatever is current. Either way the
  commit itself is version-checked, so two racing editors produce one
  winner and one ErrVersionConflict instead of a silent overwrite.

SEE ALSO:
  - quota.go: The gate
  - store.go: Store contracts
*/
package roster

import "context"

// VersionAny tells the service to commit against whatever roster
// version is current, skipping the client-side version pin.
const VersionAny int64 = -1

// Assignment describes one slot mutation. Officer "" clears the slot.
type Assignment struct {
	Operation Operation
	Key       MonthKey
	Day       int
	Position  int
	Officer   string
	Version   int64
}

// AssignResult reports a committed mutation.
type AssignResult struct {
	Decision Decision
	Version  int64 // roster version after the commit
}

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	cfg       Config
	store     RosterStore
	directory OfficerDirectory // nil disables directory validation
	quota     *QuotaEngine
}

func NewService(cfg Config, store RosterStore, directory OfficerDirectory) *Service {
	return &Service{
		cfg:       cfg,
		store:     store,
		directory: directory,
		quota:     NewQuotaEngine(cfg),
	}
}

func (s *Service) Config() Config { return s.cfg }

// Apply validates and commits one slot mutation.
func (s *Service) Apply(ctx context.Context, a Assignment) (*AssignResult, error) {
	capacity := s.cfg.CapacityFor(a.Operation)
	if capacity == 0 {
		return nil, ErrUnknownOperation
	}
	if !a.Key.ValidDay(a.Day) {
		return nil, ErrInvalidDay
	}
	if a.Position < 0 || a.Position >= capacity {
		return nil, &SlotPositionError{Operation: a.Operation, Position: a.Position, Capacity: capacity}
	}

	if a.Officer != "" && s.directory != nil {
		known, err := s.directory.HasOfficer(ctx, a.Officer)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, ErrOfficerNotFound
		}
	}

	month, version, err := s.store.GetMonthRoster(ctx, a.Operation, a.Key)
	if err != nil {
		return nil, err
	}
	if a.Version != VersionAny && a.Version != version {
		return nil, &VersionConflictError{Operation: a.Operation, Key: a.Key, Expected: a.Version, Actual: version}
	}

	decision := Decision{Allowed: true, Cap: s.cfg.MonthlyCap}
	if a.Officer != "" {
		set, err := s.store.GetRosterSet(ctx, a.Key)
		if err != nil {
			return nil, err
		}
		excluding := &SlotRef{Operation: a.Operation, Day: a.Day, Position: a.Position}
		decision = s.quota.EvaluateAssignment(a.Officer, a.Day, a.Operation, set, excluding)
		if !decision.Allowed {
			return nil, &QuotaExceededError{Officer: a.Officer, CurrentTotal: decision.CurrentTotal, Cap: decision.Cap}
		}
	}

	s.writeSlot(month, a.Day, a.Position, a.Officer, capacity)

	newVersion, err := s.store.SetMonthRoster(ctx, month, version)
	if err != nil {
		return nil, err
	}
	return &AssignResult{Decision: decision, Version: newVersion}, nil
}

// writeSlot mutates the in-memory snapshot, normalizing the day's slot
// array to the operation capacity. Stored days of the wrong shape are
// rebuilt here rather than rejected (silent-repair on write).
func (s *Service) writeSlot(month *MonthRoster, day, position int, officer string, capacity int) {
	slots := month.Days[day]
	if len(slots) != capacity {
		normalized := make(DaySlots, capacity)
		copy(normalized, slots)
		slots = normalized
	}
	slots[position] = officer
	month.Days[day] = slots
}

// =============================================================================
// REPORTS
// =============================================================================

// ConflictReport runs the detector over the stored month. A calendar
// provider error degrades the report instead of failing it.
func (s *Service) ConflictReport(ctx context.Context, key MonthKey, classifier Classifier, calendars CalendarProvider) ([]Violation, error) {
	set, err := s.store.GetRosterSet(ctx, key)
	if err != nil {
		return nil, err
	}

	var calendar OrdinaryCalendar
	if calendars != nil {
		calendar, err = calendars.OrdinaryCalendarFor(ctx, key)
		if err != nil {
			calendar = nil // degraded: double-booking checks only
		}
	}

	detector := NewConflictDetector(s.cfg, classifier)
	return detector.DetectConflicts(set, calendar), nil
}

// CombinedTally aggregates both operations for one month.
func (s *Service) CombinedTally(ctx context.Context, key MonthKey) (map[string]*OfficerTally, error) {
	set, err := s.store.GetRosterSet(ctx, key)
	if err != nil {
		return nil, err
	}
	return BuildCombinedTally(set, s.cfg), nil
}
