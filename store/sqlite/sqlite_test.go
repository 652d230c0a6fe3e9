/*
sqlite_test.go - Storage tests over an in-memory database

Tests for:
- Roster roundtrip and vacant-slot reconstruction
- Optimistic version counter and stale-write rejection
- Officer directory idempotence
- Calendar replace semantics
- Append-only change log ordering
*/
package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/escala/duty-engine/corps"
	"github.com/escala/duty-engine/roster"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func juneKey() roster.MonthKey {
	return roster.NewMonthKey(2026, time.June)
}

func TestRosterRoundtrip(t *testing.T) {
	// GIVEN: A month with occupied and vacant slots
	// WHEN: Writing and reading it back
	// THEN: Occupied positions survive; vacant ones reconstruct as ""

	store := newStore(t)
	ctx := context.Background()

	month := roster.NewMonthRoster(juneKey(), roster.OperationPMF)
	month.Days[10] = roster.DaySlots{"CB CARLA", "", "SD PM MARVÃO"}
	month.Days[11] = roster.DaySlots{"", "CB PM FELIPE", ""}

	version, err := store.SetMonthRoster(ctx, month, 0)
	if err != nil {
		t.Fatalf("Failed to write roster: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}

	loaded, loadedVersion, err := store.GetMonthRoster(ctx, roster.OperationPMF, juneKey())
	if err != nil {
		t.Fatalf("Failed to load roster: %v", err)
	}
	if loadedVersion != 1 {
		t.Errorf("expected version 1 on read, got %d", loadedVersion)
	}
	if got := loaded.Days[10][2]; got != "SD PM MARVÃO" {
		t.Errorf("expected SD PM MARVÃO at day 10 position 2, got %q", got)
	}
	if got := loaded.Days[11][0]; got != "" {
		t.Errorf("expected vacant position to read back empty, got %q", got)
	}
}

func TestSetMonthRoster_RejectsStaleVersion(t *testing.T) {
	// GIVEN: A roster committed at version 1
	// WHEN: Writing again with expected version 0
	// THEN: VersionConflictError, stored data untouched

	store := newStore(t)
	ctx := context.Background()

	month := roster.NewMonthRoster(juneKey(), roster.OperationPMF)
	month.Days[10] = roster.DaySlots{"CB CARLA", "", ""}
	if _, err := store.SetMonthRoster(ctx, month, 0); err != nil {
		t.Fatalf("Failed first write: %v", err)
	}

	stale := roster.NewMonthRoster(juneKey(), roster.OperationPMF)
	stale.Days[10] = roster.DaySlots{"CB PM FELIPE", "", ""}
	_, err := store.SetMonthRoster(ctx, stale, 0)

	var conflict *roster.VersionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected VersionConflictError, got %v", err)
	}
	if conflict.Expected != 0 || conflict.Actual != 1 {
		t.Errorf("expected 0 vs actual 1, got %d vs %d", conflict.Expected, conflict.Actual)
	}

	loaded, _, _ := store.GetMonthRoster(ctx, roster.OperationPMF, juneKey())
	if got := loaded.Days[10][0]; got != "CB CARLA" {
		t.Errorf("stale write must not land, got %q", got)
	}
}

func TestGetRosterSet_LoadsBothOperations(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	pmf := roster.NewMonthRoster(juneKey(), roster.OperationPMF)
	pmf.Days[5] = roster.DaySlots{"CB CARLA", "", ""}
	if _, err := store.SetMonthRoster(ctx, pmf, 0); err != nil {
		t.Fatalf("Failed to write pmf: %v", err)
	}

	es := roster.NewMonthRoster(juneKey(), roster.OperationEscolaSegura)
	es.Days[5] = roster.DaySlots{"", "SD PM MARVÃO"}
	if _, err := store.SetMonthRoster(ctx, es, 0); err != nil {
		t.Fatalf("Failed to write escolaSegura: %v", err)
	}

	set, err := store.GetRosterSet(ctx, juneKey())
	if err != nil {
		t.Fatalf("Failed to load set: %v", err)
	}
	if !set.Roster(roster.OperationPMF).SlotsOn(5).Has("CB CARLA") {
		t.Error("expected CB CARLA in pmf day 5")
	}
	if !set.Roster(roster.OperationEscolaSegura).SlotsOn(5).Has("SD PM MARVÃO") {
		t.Error("expected SD PM MARVÃO in escolaSegura day 5")
	}
}

func TestOfficerDirectory(t *testing.T) {
	// GIVEN: An empty directory
	// WHEN: Saving an officer twice and deleting it
	// THEN: Saves are idempotent and deletion removes the row

	store := newStore(t)
	ctx := context.Background()

	officer := roster.Officer{Name: "CB CARLA"}
	if err := store.SaveOfficer(ctx, officer); err != nil {
		t.Fatalf("Failed to save officer: %v", err)
	}
	if err := store.SaveOfficer(ctx, officer); err != nil {
		t.Fatalf("Duplicate save must be a no-op: %v", err)
	}

	known, err := store.HasOfficer(ctx, "CB CARLA")
	if err != nil || !known {
		t.Fatalf("expected officer to exist, got known=%v err=%v", known, err)
	}

	officers, err := store.ListOfficers(ctx)
	if err != nil {
		t.Fatalf("Failed to list officers: %v", err)
	}
	if len(officers) != 1 || officers[0].CreatedAt.IsZero() {
		t.Errorf("expected one officer with a creation time, got %+v", officers)
	}

	if err := store.DeleteOfficer(ctx, "CB CARLA"); err != nil {
		t.Fatalf("Failed to delete officer: %v", err)
	}
	if known, _ := store.HasOfficer(ctx, "CB CARLA"); known {
		t.Error("expected officer gone after delete")
	}
}

func TestCalendar_ReplaceSemantics(t *testing.T) {
	// GIVEN: A stored June calendar
	// WHEN: Putting a new table for the same month
	// THEN: The old rows are fully replaced, not merged

	store := newStore(t)
	ctx := context.Background()

	if _, err := store.OrdinaryCalendarFor(ctx, juneKey()); !errors.Is(err, roster.ErrCalendarUnavailable) {
		t.Fatalf("expected ErrCalendarUnavailable for missing month, got %v", err)
	}

	first := corps.OrdinaryCalendar{10: {corps.GroupAlfa}, 11: {corps.GroupBravo}}
	if err := store.PutOrdinaryCalendar(ctx, juneKey(), first); err != nil {
		t.Fatalf("Failed to store calendar: %v", err)
	}

	second := corps.OrdinaryCalendar{10: {corps.GroupDelta}}
	if err := store.PutOrdinaryCalendar(ctx, juneKey(), second); err != nil {
		t.Fatalf("Failed to replace calendar: %v", err)
	}

	loaded, err := store.OrdinaryCalendarFor(ctx, juneKey())
	if err != nil {
		t.Fatalf("Failed to load calendar: %v", err)
	}
	if got := loaded.GroupsOn(10); len(got) != 1 || got[0] != corps.GroupDelta {
		t.Errorf("expected [DELTA] on day 10, got %v", got)
	}
	if got := loaded.GroupsOn(11); got != nil {
		t.Errorf("expected day 11 cleared by replace, got %v", got)
	}
}

func TestListChanges_NewestFirst(t *testing.T) {
	// GIVEN: Three committed versions of one month
	// WHEN: Listing the change log
	// THEN: Entries come back newest first with distinct ids

	store := newStore(t)
	ctx := context.Background()

	for i := int64(0); i < 3; i++ {
		month := roster.NewMonthRoster(juneKey(), roster.OperationPMF)
		month.Days[10] = roster.DaySlots{"CB CARLA", "", ""}
		if _, err := store.SetMonthRoster(ctx, month, i); err != nil {
			t.Fatalf("Failed write %d: %v", i, err)
		}
	}

	changes, err := store.ListChanges(ctx, roster.OperationPMF, juneKey())
	if err != nil {
		t.Fatalf("Failed to list changes: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	if changes[0].Version != 3 || changes[2].Version != 1 {
		t.Errorf("expected versions [3 2 1], got %+v", changes)
	}
	if changes[0].ID == changes[1].ID {
		t.Error("expected distinct change ids")
	}
	if changes[0].ChangedAt.IsZero() {
		t.Error("expected a parseable change timestamp")
	}
}
