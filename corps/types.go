// Package corps holds the company's duty-group and rank tables, the
// name classifier built on them, and the ordinary-duty calendar type.
// It implements the classifier and calendar contracts the roster engine
// consumes. All tables live in one place (Tables) and are injected, so
// the classifier, the conflict detector and the search aliases can
// never drift apart.
package corps

// =============================================================================
// GROUP TAGS
// =============================================================================

// GroupTag names one ordinary-duty rotation group of the company.
type GroupTag = string

const (
	GroupAlfa       GroupTag = "ALFA"
	GroupBravo      GroupTag = "BRAVO"
	GroupCharlie    GroupTag = "CHARLIE"
	GroupDelta      GroupTag = "DELTA"
	GroupExpediente GroupTag = "EXPEDIENTE"

	// GroupOther is the sentinel for names matching no membership list.
	GroupOther GroupTag = "OTHER"
)

// =============================================================================
// TABLES - The single authored configuration
// =============================================================================

// GroupMembers is one entry of the ordered classification table: the
// first group whose substring list matches wins.
type GroupMembers struct {
	Tag     GroupTag
	Members []string
}

// RankPrefix is one entry of the ordered seniority table. Lower Value
// is more senior.
type RankPrefix struct {
	Prefix string
	Value  int
}

// Tables is the consolidated authored data of the company. The legacy
// system kept copies of these lists inside each feature; here every
// consumer receives the same instance.
type Tables struct {
	Groups []GroupMembers
	Ranks  []RankPrefix

	// SearchAliases maps known-problematic stored names to the extra
	// query terms that should match them. Consulted by the generic
	// search pipeline, replacing the legacy inline special cases.
	SearchAliases map[string][]string
}

// DefaultTables returns the production tables. Member strings are
// matched case- and accent-sensitively against display names exactly
// as they appear in the published roster.
func DefaultTables() Tables {
	return Tables{
		Groups: []GroupMembers{
			{Tag: GroupAlfa, Members: []string{
				"PEIXOTO", "RODRIGO", "LEDO", "NUNES", "AMARAL", "CARLA",
				"FELIPE", "BARROS", "A. SILVA", "LUAN", "NAVARRO",
			}},
			{Tag: GroupBravo, Members: []string{
				"OLIMAR", "FÁBIO", "ANA CLEIDE", "ANDRÉ", "CARDOSO",
				"CARVALHO", "NEGRÃO",
			}},
			{Tag: GroupCharlie, Members: []string{
				"MIQUEIAS", "M. PAIXÃO", "J. MARTINS", "MORAIS", "SARGES",
				"FLÁVIO", "BRASIL",
			}},
			{Tag: GroupDelta, Members: []string{
				"MARVÃO", "IDELVAN", "GIOVANI", "ALEXANDRE", "J. PAULO",
				"PATRIK", "RAFAEL",
			}},
			{Tag: GroupExpediente, Members: []string{
				"PINHEIRO", "RIBAS", "M. SILVA", "HUGO", "VANILSON",
			}},
		},
		Ranks: []RankPrefix{
			{Prefix: "CEL", Value: 1},
			{Prefix: "TC", Value: 2},
			{Prefix: "MAJ", Value: 3},
			{Prefix: "CAP", Value: 4},
			{Prefix: "1º TEN", Value: 5},
			{Prefix: "2º TEN", Value: 6},
			{Prefix: "ASP", Value: 7},
			{Prefix: "ST", Value: 8},
			{Prefix: "1º SGT", Value: 9},
			{Prefix: "2º SGT", Value: 10},
			{Prefix: "3º SGT", Value: 11},
			{Prefix: "CB", Value: 12},
			{Prefix: "SD", Value: 13},
		},
		SearchAliases: map[string][]string{
			"SD PM MARVÃO": {"MARVAO"},
		},
	}
}

// RankUnknown is the rank assigned to names matching no prefix. Keeps
// unmatched names at the bottom of seniority-ordered reports.
const RankUnknown = 99
