package roster_test

import (
	"reflect"
	"testing"

	"github.com/escala/duty-engine/roster"
)

// =============================================================================
// TEST COLLABORATORS - Local fakes, no corps dependency
// =============================================================================

// tableClassifier is a fixed name->group map for tests.
type tableClassifier map[string]string

func (c tableClassifier) Classify(name string) string {
	if group, ok := c[name]; ok {
		return group
	}
	return "OTHER"
}

func (c tableClassifier) Rank(name string) int { return 99 }

// dayCalendar is a fixed day->groups table for tests.
type dayCalendar map[int][]string

func (c dayCalendar) GroupsOn(day int) []string { return c[day] }

func newDetector(flagDuplicates bool, classifier roster.Classifier) *roster.ConflictDetector {
	cfg := roster.DefaultConfig()
	cfg.FlagDuplicateSlots = flagDuplicates
	return roster.NewConflictDetector(cfg, classifier)
}

// =============================================================================
// ORDINARY CONFLICT TESTS
// =============================================================================

func TestConflictDetector_OrdinaryConflict(t *testing.T) {
	// GIVEN: Day 10 has group ALFA on ordinary rotation, and CB CARLA
	//        (classified ALFA) holds a PMF slot on day 10
	// WHEN: Detecting conflicts
	// THEN: Exactly one OrdinaryConflict{day 10, CB CARLA, ALFA}

	set := juneSet()
	fill(set, roster.OperationPMF, "CB CARLA", 10)

	classifier := tableClassifier{"CB CARLA": "ALFA"}
	calendar := dayCalendar{10: {"ALFA"}}

	violations := newDetector(false, classifier).DetectConflicts(set, calendar)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	want := roster.Violation{Day: 10, Officer: "CB CARLA", Group: "ALFA", Operation: roster.OperationPMF, Kind: roster.KindOrdinary}
	if violations[0] != want {
		t.Errorf("got %+v, want %+v", violations[0], want)
	}
}

func TestConflictDetector_NoConflictForOtherGroup(t *testing.T) {
	// GIVEN: Day 10 rotates BRAVO, the assigned officer is ALFA
	// WHEN: Detecting conflicts
	// THEN: No violations

	set := juneSet()
	fill(set, roster.OperationPMF, "CB CARLA", 10)

	classifier := tableClassifier{"CB CARLA": "ALFA"}
	calendar := dayCalendar{10: {"BRAVO"}}

	violations := newDetector(false, classifier).DetectConflicts(set, calendar)
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %+v", violations)
	}
}

// =============================================================================
// DOUBLE OPERATION TESTS
// =============================================================================

func TestConflictDetector_DoubleOperationConflict(t *testing.T) {
	// GIVEN: CB CARLA in PMF day 14 slot 0 AND Escola Segura day 14 slot 1
	// WHEN: Detecting conflicts
	// THEN: Exactly one DoubleOperationConflict{day 14, CB CARLA}

	set := juneSet()
	set.Roster(roster.OperationPMF).Days[14] = roster.DaySlots{"CB CARLA", "", ""}
	set.Roster(roster.OperationEscolaSegura).Days[14] = roster.DaySlots{"", "CB CARLA"}

	violations := newDetector(false, nil).DetectConflicts(set, nil)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %+v", len(violations), violations)
	}
	want := roster.Violation{Day: 14, Officer: "CB CARLA", Kind: roster.KindDoubleOperation}
	if violations[0] != want {
		t.Errorf("got %+v, want %+v", violations[0], want)
	}
}

func TestConflictDetector_DoubleOperation_OnlyWhenBothSides(t *testing.T) {
	// GIVEN: CB CARLA only in PMF on day 14
	// WHEN: Detecting conflicts
	// THEN: No double-operation violation

	set := juneSet()
	fill(set, roster.OperationPMF, "CB CARLA", 14)

	violations := newDetector(false, nil).DetectConflicts(set, nil)
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %+v", violations)
	}
}

// =============================================================================
// DEGRADED MODE AND ROBUSTNESS
// =============================================================================

func TestConflictDetector_DegradedWithoutCalendar(t *testing.T) {
	// GIVEN: No calendar available, an ordinary overlap AND a double booking
	// WHEN: Detecting conflicts with a nil calendar
	// THEN: Only the double-operation violation is reported

	set := juneSet()
	fill(set, roster.OperationPMF, "CB CARLA", 10)
	fill(set, roster.OperationPMF, "SD PM MARVÃO", 14)
	fill(set, roster.OperationEscolaSegura, "SD PM MARVÃO", 14)

	classifier := tableClassifier{"CB CARLA": "ALFA"}
	violations := newDetector(false, classifier).DetectConflicts(set, nil)

	if len(violations) != 1 || violations[0].Kind != roster.KindDoubleOperation {
		t.Errorf("degraded mode should report only double bookings, got %+v", violations)
	}
}

func TestConflictDetector_MalformedDaysIgnored(t *testing.T) {
	// GIVEN: A roster containing an out-of-month day key
	// WHEN: Detecting conflicts
	// THEN: The malformed entry is skipped, no panic, no violations

	set := juneSet()
	set.Roster(roster.OperationPMF).Days[42] = roster.DaySlots{"CB CARLA"}

	classifier := tableClassifier{"CB CARLA": "ALFA"}
	calendar := dayCalendar{10: {"ALFA"}}

	violations := newDetector(false, classifier).DetectConflicts(set, calendar)
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %+v", violations)
	}
}

func TestConflictDetector_SortedByDayAndIdempotent(t *testing.T) {
	// GIVEN: Violations arising on days 20, 3 and 11
	// WHEN: Detecting twice on the unmodified set
	// THEN: Both runs return the identical day-ascending list

	set := juneSet()
	fill(set, roster.OperationPMF, "CB CARLA", 20, 3)
	fill(set, roster.OperationPMF, "SD PM MARVÃO", 11)
	fill(set, roster.OperationEscolaSegura, "SD PM MARVÃO", 11)

	classifier := tableClassifier{"CB CARLA": "ALFA"}
	calendar := dayCalendar{3: {"ALFA"}, 20: {"ALFA"}}

	detector := newDetector(false, classifier)
	first := detector.DetectConflicts(set, calendar)
	second := detector.DetectConflicts(set, calendar)

	if !reflect.DeepEqual(first, second) {
		t.Error("detector should be idempotent on an unmodified set")
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Day > first[i].Day {
			t.Errorf("violations not sorted by day: %+v", first)
		}
	}
	if len(first) != 3 {
		t.Errorf("expected 3 violations, got %d", len(first))
	}
}

// =============================================================================
// DUPLICATE SLOT (OPT-IN) TESTS
// =============================================================================

func TestConflictDetector_DuplicateSlot_OffByDefault(t *testing.T) {
	// GIVEN: CB CARLA twice in PMF day 7
	// WHEN: Detecting with the default configuration
	// THEN: Not flagged (legacy behavior preserved)

	set := juneSet()
	set.Roster(roster.OperationPMF).Days[7] = roster.DaySlots{"CB CARLA", "CB CARLA", ""}

	violations := newDetector(false, nil).DetectConflicts(set, nil)
	if len(violations) != 0 {
		t.Errorf("duplicate slots should not be flagged by default, got %+v", violations)
	}
}

func TestConflictDetector_DuplicateSlot_FlaggedWhenEnabled(t *testing.T) {
	// GIVEN: CB CARLA twice in PMF day 7, FlagDuplicateSlots on
	// WHEN: Detecting conflicts
	// THEN: One DuplicateSlotConflict

	set := juneSet()
	set.Roster(roster.OperationPMF).Days[7] = roster.DaySlots{"CB CARLA", "CB CARLA", ""}

	violations := newDetector(true, nil).DetectConflicts(set, nil)
	if len(violations) != 1 || violations[0].Kind != roster.KindDuplicateSlot {
		t.Fatalf("expected one duplicate-slot violation, got %+v", violations)
	}
	if violations[0].Operation != roster.OperationPMF || violations[0].Day != 7 {
		t.Errorf("unexpected violation details: %+v", violations[0])
	}
}
