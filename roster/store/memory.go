// Package store provides in-memory implementations of the roster
// persistence interfaces, used by tests and the dev server.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/escala/duty-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	months   map[monthKey]*roster.MonthRoster
	versions map[monthKey]int64
	officers map[string]roster.Officer
}

type monthKey struct {
	Op  roster.Operation
	Key roster.MonthKey
}

func NewMemory() *Memory {
	return &Memory{
		months:   make(map[monthKey]*roster.MonthRoster),
		versions: make(map[monthKey]int64),
		officers: make(map[string]roster.Officer),
	}
}

var _ roster.RosterStore = (*Memory)(nil)
var _ roster.OfficerDirectory = (*Memory)(nil)

// GetMonthRoster returns a deep copy so callers can never mutate stored
// state without going through SetMonthRoster.
func (m *Memory) GetMonthRoster(_ context.Context, op roster.Operation, key roster.MonthKey) (*roster.MonthRoster, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := monthKey{Op: op, Key: key}
	if month, ok := m.months[k]; ok {
		return month.Clone(), m.versions[k], nil
	}
	return roster.NewMonthRoster(key, op), 0, nil
}

func (m *Memory) SetMonthRoster(_ context.Context, month *roster.MonthRoster, expected int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := monthKey{Op: month.Operation, Key: month.Key}
	current := m.versions[k]
	if expected != current {
		return 0, &roster.VersionConflictError{
			Operation: month.Operation,
			Key:       month.Key,
			Expected:  expected,
			Actual:    current,
		}
	}

	m.months[k] = month.Clone()
	m.versions[k] = current + 1
	return m.versions[k], nil
}

func (m *Memory) GetRosterSet(ctx context.Context, key roster.MonthKey) (*roster.OperationRosterSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := roster.NewRosterSet(key)
	for _, op := range roster.Operations() {
		if month, ok := m.months[monthKey{Op: op, Key: key}]; ok {
			set.Rosters[op] = month.Clone()
		}
	}
	return set, nil
}

// =============================================================================
// OFFICER DIRECTORY
// =============================================================================

func (m *Memory) ListOfficers(_ context.Context) ([]roster.Officer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]roster.Officer, 0, len(m.officers))
	for _, o := range m.officers {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) HasOfficer(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.officers[name]
	return ok, nil
}

func (m *Memory) SaveOfficer(_ context.Context, o roster.Officer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.officers[o.Name] = o
	return nil
}

func (m *Memory) DeleteOfficer(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.officers, name)
	return nil
}

// =============================================================================
// CALENDAR PROVIDER - Static per-month calendars
// =============================================================================

// Calendars is a CalendarProvider over hand-authored month tables.
type Calendars struct {
	mu     sync.RWMutex
	months map[roster.MonthKey]roster.OrdinaryCalendar
}

func NewCalendars() *Calendars {
	return &Calendars{months: make(map[roster.MonthKey]roster.OrdinaryCalendar)}
}

var _ roster.CalendarProvider = (*Calendars)(nil)

func (c *Calendars) Put(key roster.MonthKey, calendar roster.OrdinaryCalendar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.months[key] = calendar
}

func (c *Calendars) OrdinaryCalendarFor(_ context.Context, key roster.MonthKey) (roster.OrdinaryCalendar, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if calendar, ok := c.months[key]; ok {
		return calendar, nil
	}
	return nil, roster.ErrCalendarUnavailable
}
