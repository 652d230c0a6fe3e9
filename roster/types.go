/*
Package roster provides the core extra-duty scheduling engine.

PURPOSE:
  This package contains the domain types and algorithms for managing
  monthly extra-duty rosters: per-day officer slots for each operation,
  quota evaluation against the monthly cap, conflict detection against
  the ordinary-duty rotation, and per-officer tallies.

KEY CONCEPTS IN THIS FILE (types.go):
  - Operation: One of the extra-duty operations (PMF, Escola Segura)
  - DaySlots: The ordered officer slots for a single day of one operation
  - MonthRoster: All day slots for one operation in one month
  - OperationRosterSet: Both operations' rosters for one month
  - Violation: A typed conflict found by the detector

DESIGN PRINCIPLES:
  1. Exact names: quota and conflict logic compare officer display strings
     exactly; fuzzy matching belongs to the search package only
  2. Distinct days: the cap and all totals count distinct days worked,
     never raw slot occupancy
  3. Defensive reads: malformed day entries are treated as empty, reports
     never fail on bad data

USAGE:
  cfg := roster.DefaultConfig()
  set := roster.NewRosterSet(roster.NewMonthKey(2026, time.June))
  engine := roster.NewQuotaEngine(cfg)
  decision := engine.EvaluateAssignment("CB PM FELIPE", 10, roster.OperationPMF, set, nil)

SEE ALSO:
  - quota.go: Monthly cap evaluation
  - conflict.go: Cross-roster and ordinary-rotation conflict detection
  - tally.go: Per-officer and per-group aggregation
  - service.go: Gated slot mutations with optimistic concurrency
*/
package roster

// =============================================================================
// OPERATION - Extra-duty operation identity and capacity
// =============================================================================

type Operation string

const (
	OperationPMF          Operation = "pmf"
	OperationEscolaSegura Operation = "escolaSegura"
)

// Operations lists the known operations in stable order.
func Operations() []Operation {
	return []Operation{OperationPMF, OperationEscolaSegura}
}

// Config carries the policy constants of the scheduling engine. All values
// are injectable so tests and future policy changes never touch call sites.
type Config struct {
	// SlotCapacity is the fixed number of slots per day for each operation.
	SlotCapacity map[Operation]int

	// MonthlyCap is the maximum number of distinct extra-duty days one
	// officer may work in a month, across both operations combined.
	MonthlyCap int

	// FlagDuplicateSlots enables the DuplicateSlotConflict kind: the same
	// officer holding two slots of the same operation on the same day.
	// Off by default to preserve the observed legacy behavior.
	FlagDuplicateSlots bool
}

// DefaultConfig returns the production policy: PMF runs 3 slots a day,
// Escola Segura 2, and officers may work at most 12 distinct days a month.
func DefaultConfig() Config {
	return Config{
		SlotCapacity: map[Operation]int{
			OperationPMF:          3,
			OperationEscolaSegura: 2,
		},
		MonthlyCap: 12,
	}
}

// CapacityFor returns the slot capacity for an operation, 0 if unknown.
func (c Config) CapacityFor(op Operation) int {
	return c.SlotCapacity[op]
}

// =============================================================================
// DAY SLOTS - Ordered officer slots for one day
// =============================================================================

// DaySlots holds the officer display names assigned to one day of one
// operation. The empty string marks a vacant slot. Position carries no
// meaning beyond column layout in the published roster.
type DaySlots []string

// Officers returns the non-empty slot values in order.
func (d DaySlots) Officers() []string {
	var out []string
	for _, name := range d {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Has reports whether the officer holds any slot this day (exact match).
func (d DaySlots) Has(officer string) bool {
	for _, name := range d {
		if name == officer {
			return true
		}
	}
	return false
}

// =============================================================================
// MONTH ROSTER - One operation, one month
// =============================================================================

// MonthRoster maps day numbers (1..days-in-month) to their slots for a
// single operation. Absent days mean no assignments, not an error.
type MonthRoster struct {
	Key       MonthKey
	Operation Operation
	Days      map[int]DaySlots
}

func NewMonthRoster(key MonthKey, op Operation) *MonthRoster {
	return &MonthRoster{Key: key, Operation: op, Days: make(map[int]DaySlots)}
}

// SlotsOn returns the slots for a day, nil when the day is absent or
// outside the month. Readers must treat nil as "no assignments".
func (m *MonthRoster) SlotsOn(day int) DaySlots {
	if m == nil || !m.Key.ValidDay(day) {
		return nil
	}
	return m.Days[day]
}

// Clone returns a deep copy, used by stores to hand out safe snapshots.
func (m *MonthRoster) Clone() *MonthRoster {
	if m == nil {
		return nil
	}
	out := NewMonthRoster(m.Key, m.Operation)
	for day, slots := range m.Days {
		out.Days[day] = append(DaySlots(nil), slots...)
	}
	return out
}

// =============================================================================
// OPERATION ROSTER SET - Both operations for one month
// =============================================================================

// OperationRosterSet is the primary input to the quota engine and the
// conflict detector: the pair of month rosters for one year+month.
type OperationRosterSet struct {
	Key     MonthKey
	Rosters map[Operation]*MonthRoster
}

func NewRosterSet(key MonthKey) *OperationRosterSet {
	set := &OperationRosterSet{Key: key, Rosters: make(map[Operation]*MonthRoster)}
	for _, op := range Operations() {
		set.Rosters[op] = NewMonthRoster(key, op)
	}
	return set
}

// Roster returns the month roster for an operation, nil if absent.
func (s *OperationRosterSet) Roster(op Operation) *MonthRoster {
	if s == nil {
		return nil
	}
	return s.Rosters[op]
}

// =============================================================================
// SLOT REFERENCE - Identifies one slot during an edit
// =============================================================================

// SlotRef identifies a single slot, used by the quota engine to exclude
// the slot currently being edited from the officer's running total.
type SlotRef struct {
	Operation Operation
	Day       int
	Position  int
}

// =============================================================================
// VIOLATION - Typed conflict output
// =============================================================================

type ViolationKind string

const (
	// KindOrdinary: the officer's duty group is on ordinary rotation the
	// same day the officer holds an extra-duty slot.
	KindOrdinary ViolationKind = "ordinary_conflict"

	// KindDoubleOperation: the officer holds slots in both operations on
	// the same day.
	KindDoubleOperation ViolationKind = "double_operation_conflict"

	// KindDuplicateSlot: the officer holds two slots of the same operation
	// on the same day. Emitted only when Config.FlagDuplicateSlots is set.
	KindDuplicateSlot ViolationKind = "duplicate_slot_conflict"
)

// Violation records one detected conflict. Group is set for ordinary
// conflicts, Operation for ordinary and duplicate-slot conflicts.
type Violation struct {
	Day       int           `json:"day"`
	Officer   string        `json:"officer"`
	Group     string        `json:"group,omitempty"`
	Operation Operation     `json:"operation,omitempty"`
	Kind      ViolationKind `json:"kind"`
}

// =============================================================================
// COLLABORATOR INTERFACES - Implemented by the corps package
// =============================================================================

// Classifier maps an officer display name to a duty-group tag. The
// conflict detector degrades to double-booking checks only when nil.
type Classifier interface {
	// Classify returns the duty-group tag for a display name. Total: every
	// input maps to exactly one group, with a sentinel for "no group".
	Classify(name string) string

	// Rank returns the seniority rank for a display name, lower is more
	// senior. Used for report ordering only, never for conflict logic.
	Rank(name string) int
}

// OrdinaryCalendar exposes which duty groups are on ordinary rotation on
// each day of the month. Authored data, injected, never computed here.
type OrdinaryCalendar interface {
	// GroupsOn returns the group tags on ordinary rotation for a day.
	// Days with no rotation entry return nil.
	GroupsOn(day int) []string
}
