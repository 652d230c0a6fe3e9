package corps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escala/duty-engine/corps"
)

func TestClassify_ProductionTables(t *testing.T) {
	c := corps.NewClassifier(corps.DefaultTables())

	// GIVEN: Display names exactly as published in the roster
	// WHEN: Classifying them
	// THEN: Each maps to its authored group
	assert.Equal(t, corps.GroupAlfa, c.Classify("CB CARLA"))
	assert.Equal(t, corps.GroupAlfa, c.Classify("3º SGT AMARAL"))
	assert.Equal(t, corps.GroupDelta, c.Classify("SD PM MARVÃO"))
	assert.Equal(t, corps.GroupExpediente, c.Classify("ST PINHEIRO"))
}

func TestClassify_IsCaseAndAccentSensitive(t *testing.T) {
	c := corps.NewClassifier(corps.DefaultTables())

	// Matching is exact against the authored tables. Lowercase and
	// accent-stripped variants fall through to OTHER.
	assert.Equal(t, corps.GroupOther, c.Classify("cb carla"))
	assert.Equal(t, corps.GroupOther, c.Classify("SD PM MARVAO"))
	assert.Equal(t, corps.GroupOther, c.Classify(""))
	assert.Equal(t, corps.GroupOther, c.Classify("SD PM DESCONHECIDO"))
}

func TestClassify_FirstTableEntryWins(t *testing.T) {
	tables := corps.Tables{
		Groups: []corps.GroupMembers{
			{Tag: corps.GroupAlfa, Members: []string{"SILVA"}},
			{Tag: corps.GroupBravo, Members: []string{"SILVA"}},
		},
	}
	c := corps.NewClassifier(tables)

	assert.Equal(t, corps.GroupAlfa, c.Classify("SD SILVA"))
}

func TestRank_PrefixTable(t *testing.T) {
	c := corps.NewClassifier(corps.DefaultTables())

	assert.Equal(t, 11, c.Rank("3º SGT AMARAL"))
	assert.Equal(t, 12, c.Rank("CB PM FELIPE"))
	assert.Equal(t, 13, c.Rank("SD PM MARVÃO"))
	assert.Equal(t, 4, c.Rank("CAP COSTA"))
	assert.Equal(t, corps.RankUnknown, c.Rank("PEIXOTO"))
}

func TestOrdinaryCalendar_GroupsOn(t *testing.T) {
	cal := corps.OrdinaryCalendar{
		10: {corps.GroupAlfa},
		11: {corps.GroupBravo, corps.GroupCharlie},
	}

	assert.Equal(t, []string{corps.GroupAlfa}, cal.GroupsOn(10))
	assert.Nil(t, cal.GroupsOn(12))

	var missing corps.OrdinaryCalendar
	assert.Nil(t, missing.GroupsOn(10))
}

func TestRotationCycle(t *testing.T) {
	cycle := []corps.GroupTag{corps.GroupAlfa, corps.GroupBravo, corps.GroupCharlie, corps.GroupDelta}
	cal := corps.RotationCycle(cycle, 30)

	assert.Len(t, cal, 30)
	assert.Equal(t, []corps.GroupTag{corps.GroupAlfa}, cal[1])
	assert.Equal(t, []corps.GroupTag{corps.GroupDelta}, cal[4])
	assert.Equal(t, []corps.GroupTag{corps.GroupAlfa}, cal[5])
	assert.Empty(t, corps.RotationCycle(nil, 30))
}

func TestMerge_UnionsWithoutDuplicates(t *testing.T) {
	base := corps.OrdinaryCalendar{1: {corps.GroupAlfa}}
	overlay := corps.OrdinaryCalendar{
		1: {corps.GroupAlfa, corps.GroupBravo},
		2: {corps.GroupCharlie},
	}

	merged := base.Merge(overlay)

	assert.Equal(t, []corps.GroupTag{corps.GroupAlfa, corps.GroupBravo}, merged[1])
	assert.Equal(t, []corps.GroupTag{corps.GroupCharlie}, merged[2])
}
