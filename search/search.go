package search

import (
	"sort"

	"github.com/escala/duty-engine/roster"
)

// =============================================================================
// ROSTER SEARCH - Find an officer's assignments by fuzzy query
// =============================================================================

// Hit is one slot found for a query.
type Hit struct {
	Operation roster.Operation `json:"operation"`
	Day       int              `json:"day"`
	Position  int              `json:"position"`
	Officer   string           `json:"officer"`
}

// Search scans both operations' committed rosters for slots whose
// officer matches the query, ordered by day, then operation, then
// position. Read-only over a snapshot; results are as permissive as
// the matcher itself.
func (m *Matcher) Search(set *roster.OperationRosterSet, query string) []Hit {
	var hits []Hit
	if set == nil || Normalize(query) == "" {
		return hits
	}

	for _, op := range roster.Operations() {
		month := set.Roster(op)
		if month == nil {
			continue
		}
		for day := 1; day <= set.Key.Days(); day++ {
			for pos, officer := range month.SlotsOn(day) {
				if officer == "" {
					continue
				}
				if m.Matches(officer, query) {
					hits = append(hits, Hit{Operation: op, Day: day, Position: pos, Officer: officer})
				}
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Day != hits[j].Day {
			return hits[i].Day < hits[j].Day
		}
		if hits[i].Operation != hits[j].Operation {
			return hits[i].Operation < hits[j].Operation
		}
		return hits[i].Position < hits[j].Position
	})
	return hits
}
