/*
tally.go - Per-officer and per-group aggregation

PURPOSE:
  Builds the summary statistics the published roster shows next to the
  schedule: how many distinct days each officer worked, who is scheduled
  the most, and how the load spreads across duty groups.

SEMANTICS:
  Total = number of DISTINCT days the officer appears in any slot. An
  officer entered twice on the same day (data-entry duplicate) counts
  once. The cap and the most-scheduled ranking both rest on this.

ORDERING:
  Rendered tallies sort by seniority rank ascending (via Classifier),
  ties by total descending, then by name for determinism.

SEE ALSO:
  - quota.go: Same distinct-day semantic for the cap
  - corps/: Rank source for ordering
*/
package roster

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// OFFICER TALLY
// =============================================================================

// OfficerTally summarizes one officer's month in one operation or in the
// combined set, depending on what was aggregated.
type OfficerTally struct {
	Officer string `json:"officer"`
	Days    []int  `json:"days"`  // sorted, unique
	Total   int    `json:"total"` // len(Days)

	ExceedsCap bool `json:"exceeds_cap"`
	AtCap      bool `json:"at_cap"`
}

// BuildTally aggregates one operation's month roster into per-officer
// tallies keyed by exact display name. Malformed or out-of-month day
// entries are skipped.
func BuildTally(month *MonthRoster) map[string]*OfficerTally {
	out := make(map[string]*OfficerTally)
	if month == nil {
		return out
	}
	for day, slots := range month.Days {
		if !month.Key.ValidDay(day) {
			continue
		}
		accumulate(out, day, slots)
	}
	finish(out, 0)
	return out
}

// BuildCombinedTally aggregates both operations with the distinct-day
// rule applied across the pair, and marks cap standing against cfg.
func BuildCombinedTally(set *OperationRosterSet, cfg Config) map[string]*OfficerTally {
	out := make(map[string]*OfficerTally)
	if set == nil {
		return out
	}
	for _, month := range set.Rosters {
		if month == nil {
			continue
		}
		for day, slots := range month.Days {
			if !month.Key.ValidDay(day) {
				continue
			}
			accumulate(out, day, slots)
		}
	}
	finish(out, cfg.MonthlyCap)
	return out
}

func accumulate(tallies map[string]*OfficerTally, day int, slots DaySlots) {
	for _, officer := range slots.Officers() {
		t := tallies[officer]
		if t == nil {
			t = &OfficerTally{Officer: officer}
			tallies[officer] = t
		}
		if !containsDay(t.Days, day) {
			t.Days = append(t.Days, day)
		}
	}
}

func finish(tallies map[string]*OfficerTally, cap int) {
	for _, t := range tallies {
		sort.Ints(t.Days)
		t.Total = len(t.Days)
		if cap > 0 {
			t.AtCap = t.Total == cap
			t.ExceedsCap = t.Total > cap
		}
	}
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// MostScheduled returns every officer whose total equals the maximum
// total in the tally set. Ties are all reported.
func MostScheduled(tallies map[string]*OfficerTally) []*OfficerTally {
	max := 0
	for _, t := range tallies {
		if t.Total > max {
			max = t.Total
		}
	}
	if max == 0 {
		return nil
	}
	var out []*OfficerTally
	for _, t := range tallies {
		if t.Total == max {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Officer < out[j].Officer })
	return out
}

// SortForDisplay orders tallies by seniority rank ascending, then total
// descending, then name. classifier may be nil (rank ties everywhere).
func SortForDisplay(tallies map[string]*OfficerTally, classifier Classifier) []*OfficerTally {
	out := make([]*OfficerTally, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, t)
	}
	rank := func(name string) int {
		if classifier == nil {
			return 0
		}
		return classifier.Rank(name)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rank(out[i].Officer), rank(out[j].Officer)
		if ri != rj {
			return ri < rj
		}
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Officer < out[j].Officer
	})
	return out
}

// =============================================================================
// GROUP SUMMARY
// =============================================================================

// GroupSummary reports how one duty group shares the month's load.
// Share is a percentage of all distinct officer-days, two decimal places.
type GroupSummary struct {
	Group    string          `json:"group"`
	Officers int             `json:"officers"`
	Days     int             `json:"days"`
	Share    decimal.Decimal `json:"share"`
}

// BuildGroupSummary folds a combined tally into per-group totals. The
// classifier assigns each officer to a group; nil yields a single bucket.
func BuildGroupSummary(tallies map[string]*OfficerTally, classifier Classifier) []GroupSummary {
	type acc struct {
		officers int
		days     int
	}
	byGroup := make(map[string]*acc)
	totalDays := 0
	for _, t := range tallies {
		group := ""
		if classifier != nil {
			group = classifier.Classify(t.Officer)
		}
		a := byGroup[group]
		if a == nil {
			a = &acc{}
			byGroup[group] = a
		}
		a.officers++
		a.days += t.Total
		totalDays += t.Total
	}

	out := make([]GroupSummary, 0, len(byGroup))
	hundred := decimal.NewFromInt(100)
	for group, a := range byGroup {
		share := decimal.Zero
		if totalDays > 0 {
			share = decimal.NewFromInt(int64(a.days)).
				Mul(hundred).
				Div(decimal.NewFromInt(int64(totalDays))).
				Round(2)
		}
		out = append(out, GroupSummary{Group: group, Officers: a.officers, Days: a.days, Share: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Days != out[j].Days {
			return out[i].Days > out[j].Days
		}
		return out[i].Group < out[j].Group
	})
	return out
}
