/*
Package factory provides JSON to Go configuration conversion.

PURPOSE:
  Converts JSON configuration into roster.Config and corps.Tables. The
  company's authored data - slot capacities, the monthly cap, group
  membership lists, the rank table, search aliases and ordinary-duty
  calendars - can then live in a file or a database row instead of
  code, and the command staff can adjust it without a deploy.

JSON SCHEMA:
  {
    "operations": {"pmf": 3, "escolaSegura": 2},
    "monthly_cap": 12,
    "flag_duplicate_slots": false,
    "groups": [
      {"tag": "ALFA", "members": ["PEIXOTO", "CARLA"]}
    ],
    "ranks": [
      {"prefix": "CB", "value": 12}
    ],
    "search_aliases": {"SD PM MARVÃO": ["MARVAO"]},
    "calendars": {
      "2026-06": {"10": ["ALFA"], "11": ["BRAVO"]}
    }
  }

KEY FEATURES:
  - Omitted sections fall back to the production defaults
  - Validates capacities, cap and day numbers
  - Calendars keyed by "YYYY-MM", days by decimal string

SEE ALSO:
  - corps/types.go: DefaultTables, the code-side defaults
  - roster/types.go: DefaultConfig
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/escala/duty-engine/corps"
	"github.com/escala/duty-engine/roster"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type ConfigJSON struct {
	Operations         map[string]int      `json:"operations,omitempty"`
	MonthlyCap         *int                `json:"monthly_cap,omitempty"`
	FlagDuplicateSlots bool                `json:"flag_duplicate_slots,omitempty"`
	Groups             []GroupJSON         `json:"groups,omitempty"`
	Ranks              []RankJSON          `json:"ranks,omitempty"`
	SearchAliases      map[string][]string `json:"search_aliases,omitempty"`
	Calendars          map[string]CalendarJSON `json:"calendars,omitempty"`
}

type GroupJSON struct {
	Tag     string   `json:"tag"`
	Members []string `json:"members"`
}

type RankJSON struct {
	Prefix string `json:"prefix"`
	Value  int    `json:"value"`
}

// CalendarJSON maps day-of-month (as a decimal string, JSON object
// keys are strings) to the rotating group tags.
type CalendarJSON map[string][]string

// =============================================================================
// FACTORY
// =============================================================================

type ConfigFactory struct{}

func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// Result bundles everything a parsed configuration produces.
type Result struct {
	Config    roster.Config
	Tables    corps.Tables
	Calendars map[roster.MonthKey]corps.OrdinaryCalendar
}

// Parse converts a JSON document into engine configuration. Sections
// absent from the document keep the production defaults.
func (f *ConfigFactory) Parse(data []byte) (*Result, error) {
	var doc ConfigJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid config json: %w", err)
	}
	return f.Build(doc)
}

// Build converts an already-decoded document.
func (f *ConfigFactory) Build(doc ConfigJSON) (*Result, error) {
	result := &Result{
		Config:    roster.DefaultConfig(),
		Tables:    corps.DefaultTables(),
		Calendars: make(map[roster.MonthKey]corps.OrdinaryCalendar),
	}
	result.Config.FlagDuplicateSlots = doc.FlagDuplicateSlots

	if len(doc.Operations) > 0 {
		caps := make(map[roster.Operation]int, len(doc.Operations))
		for op, capacity := range doc.Operations {
			if capacity <= 0 {
				return nil, fmt.Errorf("operation %q: capacity must be positive, got %d", op, capacity)
			}
			caps[roster.Operation(op)] = capacity
		}
		result.Config.SlotCapacity = caps
	}

	if doc.MonthlyCap != nil {
		if *doc.MonthlyCap <= 0 {
			return nil, fmt.Errorf("monthly_cap must be positive, got %d", *doc.MonthlyCap)
		}
		result.Config.MonthlyCap = *doc.MonthlyCap
	}

	if len(doc.Groups) > 0 {
		groups := make([]corps.GroupMembers, 0, len(doc.Groups))
		for _, g := range doc.Groups {
			if g.Tag == "" {
				return nil, fmt.Errorf("group with empty tag")
			}
			groups = append(groups, corps.GroupMembers{Tag: g.Tag, Members: g.Members})
		}
		result.Tables.Groups = groups
	}

	if len(doc.Ranks) > 0 {
		ranks := make([]corps.RankPrefix, 0, len(doc.Ranks))
		for _, r := range doc.Ranks {
			if r.Prefix == "" {
				return nil, fmt.Errorf("rank with empty prefix")
			}
			ranks = append(ranks, corps.RankPrefix{Prefix: r.Prefix, Value: r.Value})
		}
		result.Tables.Ranks = ranks
	}

	if doc.SearchAliases != nil {
		result.Tables.SearchAliases = doc.SearchAliases
	}

	for monthStr, calJSON := range doc.Calendars {
		key, err := roster.ParseMonthKey(monthStr)
		if err != nil {
			return nil, err
		}
		calendar, err := buildCalendar(key, calJSON)
		if err != nil {
			return nil, fmt.Errorf("calendar %s: %w", monthStr, err)
		}
		result.Calendars[key] = calendar
	}

	return result, nil
}

func buildCalendar(key roster.MonthKey, doc CalendarJSON) (corps.OrdinaryCalendar, error) {
	calendar := make(corps.OrdinaryCalendar, len(doc))
	for dayStr, groups := range doc {
		day, err := strconv.Atoi(dayStr)
		if err != nil {
			return nil, fmt.Errorf("invalid day %q", dayStr)
		}
		if !key.ValidDay(day) {
			return nil, fmt.Errorf("day %d outside %s", day, key)
		}
		calendar[day] = append([]corps.GroupTag(nil), groups...)
	}
	return calendar, nil
}
