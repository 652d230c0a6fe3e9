/*
quota.go - Monthly cap evaluation

PURPOSE:
  Decides whether a slot assignment may be committed. The cap counts
  DISTINCT days worked across both operations combined, not raw slot
  occupancy: an officer holding two slots on the same day has worked
  one day. This is the load-bearing semantic shared with tally.go.

RULES:
  - Assigning with a distinct-day total already at the cap is rejected.
  - The assignment that reaches exactly the cap is allowed (12th of 12).
  - Clearing a slot is always allowed, no evaluation at all.
  - The slot under edit is excluded from the running total so that
    reassigning an officer within a day never counts the officer twice.

The evaluation is pure and synchronous; it must run before any mutation
is committed, and rejection leaves the roster untouched.

SEE ALSO:
  - service.go: Runs this gate before every commit
  - tally.go: Same distinct-day semantic for reporting
*/
package roster

// =============================================================================
// QUOTA ENGINE
// =============================================================================

type QuotaEngine struct {
	cfg Config
}

func NewQuotaEngine(cfg Config) *QuotaEngine {
	return &QuotaEngine{cfg: cfg}
}

// Decision is the outcome of a quota evaluation. CurrentTotal is the
// officer's distinct-day count before the proposed assignment, so callers
// can surface "already has N of M days" on rejection.
type Decision struct {
	Allowed      bool
	CurrentTotal int
	Cap          int
}

// EvaluateAssignment gates assigning officer to a slot on day of target.
// excluding identifies the slot being edited, so the officer's own current
// occupancy of that slot is not self-counted; pass nil when filling a slot
// that does not currently involve this edit.
//
// Clearing is modelled by the caller simply not calling this: an empty
// target is always allowed.
func (q *QuotaEngine) EvaluateAssignment(officer string, day int, target Operation, set *OperationRosterSet, excluding *SlotRef) Decision {
	total := q.DistinctDays(officer, set, excluding)

	// Assigning a day the officer already works does not add a distinct
	// day, so it can never push the total past the cap.
	if q.worksOn(officer, day, set, excluding) {
		return Decision{Allowed: true, CurrentTotal: total, Cap: q.cfg.MonthlyCap}
	}

	return Decision{
		Allowed:      total < q.cfg.MonthlyCap,
		CurrentTotal: total,
		Cap:          q.cfg.MonthlyCap,
	}
}

// DistinctDays counts the days on which officer holds at least one slot
// in either operation, excluding the slot identified by excluding.
func (q *QuotaEngine) DistinctDays(officer string, set *OperationRosterSet, excluding *SlotRef) int {
	if set == nil || officer == "" {
		return 0
	}

	seen := make(map[int]bool)
	for op, month := range set.Rosters {
		if month == nil {
			continue
		}
		for day, slots := range month.Days {
			if !month.Key.ValidDay(day) {
				continue
			}
			for pos, name := range slots {
				if name != officer {
					continue
				}
				if excluding != nil && excluding.Operation == op && excluding.Day == day && excluding.Position == pos {
					continue
				}
				seen[day] = true
			}
		}
	}
	return len(seen)
}

func (q *QuotaEngine) worksOn(officer string, day int, set *OperationRosterSet, excluding *SlotRef) bool {
	for op, month := range set.Rosters {
		for pos, name := range month.SlotsOn(day) {
			if name != officer {
				continue
			}
			if excluding != nil && excluding.Operation == op && excluding.Day == day && excluding.Position == pos {
				continue
			}
			return true
		}
	}
	return false
}
