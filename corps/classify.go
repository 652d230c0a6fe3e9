/*
classify.go - Officer name classification

PURPOSE:
  Maps an officer display name ("CB PM FELIPE") to a duty-group tag and
  a seniority rank, by substring matching against the authored tables.

CONTRACT:
  Classification is CASE- and ACCENT-SENSITIVE by design: the tables
  are written exactly as names appear in the published roster, and the
  conflict engine must stay exact-match to avoid false positives
  against real duty data. Tolerant matching lives in the search
  package and nowhere else.

  Classify is total: every string maps to exactly one group, with
  GroupOther when no membership list matches. First table entry wins.

SEE ALSO:
  - types.go: The tables
  - roster/conflict.go: Consumer of group tags
*/
package corps

import "strings"

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier implements roster.Classifier over a Tables instance.
type Classifier struct {
	tables Tables
}

func NewClassifier(tables Tables) *Classifier {
	return &Classifier{tables: tables}
}

// Classify returns the duty-group tag for a display name. Pure function
// over the tables: no normalization, no side effects.
func (c *Classifier) Classify(name string) GroupTag {
	for _, group := range c.tables.Groups {
		for _, member := range group.Members {
			if strings.Contains(name, member) {
				return group.Tag
			}
		}
	}
	return GroupOther
}

// Rank returns the seniority rank for a display name: the value of the
// first rank prefix found within the name, RankUnknown otherwise. Used
// only for display ordering, never for conflict logic.
func (c *Classifier) Rank(name string) int {
	for _, rank := range c.tables.Ranks {
		if strings.Contains(name, rank.Prefix) {
			return rank.Value
		}
	}
	return RankUnknown
}

// Tables exposes the underlying configuration (for search aliases).
func (c *Classifier) Tables() Tables { return c.tables }
