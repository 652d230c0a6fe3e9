package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escala/duty-engine/corps"
	"github.com/escala/duty-engine/factory"
	"github.com/escala/duty-engine/roster"
)

func TestParse_EmptyDocumentKeepsDefaults(t *testing.T) {
	f := factory.NewConfigFactory()

	result, err := f.Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, roster.DefaultConfig(), result.Config)
	assert.Equal(t, corps.DefaultTables(), result.Tables)
	assert.Empty(t, result.Calendars)
}

func TestParse_FullDocument(t *testing.T) {
	f := factory.NewConfigFactory()

	result, err := f.Parse([]byte(`{
		"operations": {"pmf": 4, "escolaSegura": 2},
		"monthly_cap": 10,
		"flag_duplicate_slots": true,
		"groups": [{"tag": "ALFA", "members": ["CARLA"]}],
		"ranks": [{"prefix": "CB", "value": 12}],
		"search_aliases": {"SD PM MARVÃO": ["MARVAO"]},
		"calendars": {"2026-06": {"10": ["ALFA"], "11": ["BRAVO", "CHARLIE"]}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 4, result.Config.CapacityFor(roster.OperationPMF))
	assert.Equal(t, 2, result.Config.CapacityFor(roster.OperationEscolaSegura))
	assert.Equal(t, 10, result.Config.MonthlyCap)
	assert.True(t, result.Config.FlagDuplicateSlots)

	require.Len(t, result.Tables.Groups, 1)
	assert.Equal(t, corps.GroupMembers{Tag: "ALFA", Members: []string{"CARLA"}}, result.Tables.Groups[0])
	require.Len(t, result.Tables.Ranks, 1)
	assert.Equal(t, []string{"MARVAO"}, result.Tables.SearchAliases["SD PM MARVÃO"])

	key := roster.NewMonthKey(2026, time.June)
	require.Contains(t, result.Calendars, key)
	assert.Equal(t, []corps.GroupTag{"ALFA"}, result.Calendars[key].GroupsOn(10))
	assert.Equal(t, []corps.GroupTag{"BRAVO", "CHARLIE"}, result.Calendars[key].GroupsOn(11))
}

func TestParse_RejectsInvalidValues(t *testing.T) {
	f := factory.NewConfigFactory()

	cases := []struct {
		name string
		json string
	}{
		{"malformed json", `{`},
		{"zero capacity", `{"operations": {"pmf": 0}}`},
		{"negative cap", `{"monthly_cap": -1}`},
		{"empty group tag", `{"groups": [{"tag": "", "members": ["X"]}]}`},
		{"empty rank prefix", `{"ranks": [{"prefix": "", "value": 1}]}`},
		{"bad month key", `{"calendars": {"junho": {}}}`},
		{"non-numeric day", `{"calendars": {"2026-06": {"dez": ["ALFA"]}}}`},
		{"day outside month", `{"calendars": {"2026-06": {"31": ["ALFA"]}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Parse([]byte(tc.json))
			assert.Error(t, err)
		})
	}
}
