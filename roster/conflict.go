/*
conflict.go - Cross-roster and ordinary-rotation conflict detection

PURPOSE:
  Scans a committed month (both operations) and produces the typed list
  of violations shown in the consistency report:

  1. OrdinaryConflict: the officer holds an extra-duty slot on a day
     the officer's duty group is on ordinary rotation.
  2. DoubleOperationConflict: the officer holds slots in both
     operations on the same day.
  3. DuplicateSlotConflict (opt-in): the officer holds two slots of
     the SAME operation on the same day.

DEGRADED MODE:
  Without a classifier or calendar, ordinary-rotation checks are
  skipped and only double-booking checks run. The report never fails
  on missing collaborators or malformed day entries.

ORDERING:
  Violations are sorted by day ascending with a stable sort; within a
  day, insertion order is preserved (ordinary conflicts for PMF first,
  then Escola Segura, then cross-operation, then duplicates).

SEE ALSO:
  - types.go: Violation and the Classifier/OrdinaryCalendar interfaces
  - corps/: Production classifier and calendar implementations
*/
package roster

import "sort"

// =============================================================================
// CONFLICT DETECTOR
// =============================================================================

type ConflictDetector struct {
	cfg        Config
	classifier Classifier
}

// NewConflictDetector builds a detector. classifier may be nil, in which
// case only cross-operation (and duplicate-slot, if enabled) checks run.
func NewConflictDetector(cfg Config, classifier Classifier) *ConflictDetector {
	return &ConflictDetector{cfg: cfg, classifier: classifier}
}

// DetectConflicts scans the roster set against the ordinary-duty calendar.
// calendar may be nil (degraded mode). The result is deterministic for an
// unmodified set: calling twice yields the identical list.
func (d *ConflictDetector) DetectConflicts(set *OperationRosterSet, calendar OrdinaryCalendar) []Violation {
	violations := []Violation{}
	if set == nil {
		return violations
	}

	if d.classifier != nil && calendar != nil {
		violations = append(violations, d.ordinaryConflicts(set, calendar)...)
	}
	violations = append(violations, d.doubleOperationConflicts(set)...)
	if d.cfg.FlagDuplicateSlots {
		violations = append(violations, d.duplicateSlotConflicts(set)...)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Day < violations[j].Day
	})
	return violations
}

func (d *ConflictDetector) ordinaryConflicts(set *OperationRosterSet, calendar OrdinaryCalendar) []Violation {
	var out []Violation
	for _, op := range Operations() {
		month := set.Roster(op)
		if month == nil {
			continue
		}
		for day := 1; day <= set.Key.Days(); day++ {
			rotating := calendar.GroupsOn(day)
			if len(rotating) == 0 {
				continue
			}
			for _, officer := range month.SlotsOn(day).Officers() {
				group := d.classifier.Classify(officer)
				if containsGroup(rotating, group) {
					out = append(out, Violation{
						Day:       day,
						Officer:   officer,
						Group:     group,
						Operation: op,
						Kind:      KindOrdinary,
					})
				}
			}
		}
	}
	return out
}

func (d *ConflictDetector) doubleOperationConflicts(set *OperationRosterSet) []Violation {
	pmf := set.Roster(OperationPMF)
	es := set.Roster(OperationEscolaSegura)
	if pmf == nil || es == nil {
		return nil
	}

	var out []Violation
	for day := 1; day <= set.Key.Days(); day++ {
		inES := make(map[string]bool)
		for _, officer := range es.SlotsOn(day).Officers() {
			inES[officer] = true
		}
		if len(inES) == 0 {
			continue
		}
		reported := make(map[string]bool)
		for _, officer := range pmf.SlotsOn(day).Officers() {
			if inES[officer] && !reported[officer] {
				out = append(out, Violation{Day: day, Officer: officer, Kind: KindDoubleOperation})
				reported[officer] = true
			}
		}
	}
	return out
}

func (d *ConflictDetector) duplicateSlotConflicts(set *OperationRosterSet) []Violation {
	var out []Violation
	for _, op := range Operations() {
		month := set.Roster(op)
		if month == nil {
			continue
		}
		for day := 1; day <= set.Key.Days(); day++ {
			counts := make(map[string]int)
			for _, officer := range month.SlotsOn(day).Officers() {
				counts[officer]++
				if counts[officer] == 2 {
					out = append(out, Violation{Day: day, Officer: officer, Operation: op, Kind: KindDuplicateSlot})
				}
			}
		}
	}
	return out
}

func containsGroup(groups []string, group string) bool {
	for _, g := range groups {
		if g == group {
			return true
		}
	}
	return false
}
