package blueprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/bpkit/api"
	"github.com/agentic-research/bpkit/internal/codec"
	"github.com/agentic-research/bpkit/internal/value"
)

func loadFixture(t *testing.T, name string) value.Value {
	t.Helper()
	wire, err := os.ReadFile(filepath.Join("testdata", name+".txt"))
	require.NoError(t, err)
	v, err := codec.DecodeValue(string(wire))
	require.NoError(t, err)
	return v
}

func mustParse(t *testing.T, text string) value.Value {
	t.Helper()
	v, err := value.Parse(text)
	require.NoError(t, err)
	return v
}

func mustEntry(t *testing.T, v *value.Value) Entry {
	t.Helper()
	e, err := Classify(v)
	require.NoError(t, err)
	return e
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
	}{
		{`{"blueprint":{}}`, KindBlueprint},
		{`{"blueprint_book":{"blueprints":[]},"index":3}`, KindBook},
		{`{"upgrade_planner":{}}`, KindUpgradePlanner},
		{`{"deconstruction_planner":{}}`, KindDeconstructionPlanner},
	}
	for _, tt := range tests {
		v := mustParse(t, tt.text)
		e, err := Classify(&v)
		require.NoError(t, err)
		assert.Equal(t, tt.kind, e.Kind)
		assert.Equal(t, value.KindObject, e.Payload.Kind())
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		text string
		want error
	}{
		{`[]`, ErrNotEntry},
		{`{"index":1}`, ErrNotEntry},
		{`{"blueprint":"x"}`, ErrNotEntry},
		{`{"blueprint":{},"upgrade_planner":{}}`, ErrAmbiguousKind},
	}
	for _, tt := range tests {
		v := mustParse(t, tt.text)
		_, err := Classify(&v)
		assert.ErrorIs(t, err, tt.want, tt.text)
	}
	_, err := Classify(nil)
	assert.ErrorIs(t, err, ErrNotEntry)
}

func TestEntryChildren(t *testing.T) {
	book := loadFixture(t, "book")
	e := mustEntry(t, &book)
	require.NotNil(t, e.Children())
	assert.Equal(t, 2, e.Children().Len())

	bp := loadFixture(t, "selector")
	assert.Nil(t, mustEntry(t, &bp).Children())
}

func TestName_Fixtures(t *testing.T) {
	tests := []struct {
		fixture string
		want    string
	}{
		{"selector", "[icon=selector-combinator]"},
		{"book", Untitled},
		{"deconstruction", "[entity=bulk-inserter] [tile=landfill]"},
		{"upgrade_belts", "Upgrade [entity=fast-transport-belt] [entity=fast-underground-belt] [entity=fast-splitter]"},
		{"upgrade_chests", "Upgrade [entity=steel-chest]"},
		{"upgrade_module", "Upgrade [item=empty-module-slot]"},
		{"upgrade_quality", "Upgrade [entity=biochamber,quality=uncommon]"},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			v := loadFixture(t, tt.fixture)
			assert.Equal(t, tt.want, mustEntry(t, &v).Name())
		})
	}
}

func TestName_Label(t *testing.T) {
	v := mustParse(t, `{"blueprint":{"label":"Smelter","icons":[{"signal":{"name":"stone-furnace"}}]}}`)
	assert.Equal(t, "Smelter", mustEntry(t, &v).Name())

	// An empty label falls through to the icons.
	v = mustParse(t, `{"blueprint":{"label":"","icons":[{"signal":{"name":"stone-furnace"}}]}}`)
	assert.Equal(t, "[icon=stone-furnace]", mustEntry(t, &v).Name())
}

func TestName_IconQualities(t *testing.T) {
	v := mustParse(t, `{"blueprint":{"icons":[
		{"signal":{"name":"a","quality":"normal"},"index":1},
		{"signal":{"name":"b","quality":"epic"},"index":2},
		{"signal":{"type":"virtual"},"index":3}
	]}}`)
	assert.Equal(t, "[icon=a] [icon=b,quality=epic]", mustEntry(t, &v).Name())
}

func TestName_SettingsIcons(t *testing.T) {
	v := mustParse(t, `{"upgrade_planner":{"settings":{"icons":[{"signal":{"name":"upgrade-planner"}}],"mappers":[]}}}`)
	assert.Equal(t, "[icon=upgrade-planner]", mustEntry(t, &v).Name())
}

func TestName_EmptyIconsFallThrough(t *testing.T) {
	v := mustParse(t, `{"deconstruction_planner":{"settings":{"icons":[],"entity_filters":[{"name":"stone-wall"}]}}}`)
	assert.Equal(t, "[entity=stone-wall]", mustEntry(t, &v).Name())
}

func TestName_DeconstructionEllipsis(t *testing.T) {
	v := mustParse(t, `{"deconstruction_planner":{"settings":{
		"entity_filters":[{"name":"a"},{"name":"b"},{"name":"c","quality":"rare"}],
		"tile_filters":[{"name":"d"},{"name":"e"}]
	}}}`)
	assert.Equal(t, "[entity=a] [entity=b] [entity=c,quality=rare] [tile=d]…", mustEntry(t, &v).Name())
}

func TestName_UpgradeEllipsisAndDedup(t *testing.T) {
	v := mustParse(t, `{"upgrade_planner":{"settings":{"mappers":[
		{"to":{"type":"entity","name":"a"}},
		{"to":{"type":"entity","name":"a"}},
		{"to":{"type":"entity","name":"b"}},
		{"to":{"name":"bare"}},
		{"to":{"type":"item","name":"c"}},
		{"to":{"type":"entity","name":"d"}}
	]}}}`)
	name := mustEntry(t, &v).Name()
	assert.Equal(t, "Upgrade [entity=a] [entity=b] bare [item=c]…", name)

	v = mustParse(t, `{"upgrade_planner":{"settings":{"mappers":[
		{"to":{"type":"entity","name":"a"}},
		{"to":{"type":"entity","name":"b"}},
		{"to":{"type":"entity","name":"c"}},
		{"to":{"type":"entity","name":"d"}}
	]}}}`)
	assert.Equal(t, "Upgrade [entity=a] [entity=b] [entity=c] [entity=d]", mustEntry(t, &v).Name())
}

func TestName_Untitled(t *testing.T) {
	for _, text := range []string{
		`{"blueprint":{}}`,
		`{"upgrade_planner":{"settings":{"mappers":[{"from":{"name":"x"}}]}}}`,
		`{"deconstruction_planner":{}}`,
	} {
		v := mustParse(t, text)
		assert.Equal(t, Untitled, mustEntry(t, &v).Name(), text)
	}
}

func TestSetTag(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"foo bar", "foo bar\nt: val"},
		{"", "t: val"},
		{"\n", "\n\nt: val"},
		{"t: old", "t: val"},
		{"t: old\nnext line", "t: val\nnext line"},
		{"intro\nt: old\nmore", "intro\nt: val\nmore"},
		{"intro\nt: old", "intro\nt: val"},
		{"tx: other", "tx: other\nt: val"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, setTag(tt.desc, "t", "val"), "%q", tt.desc)
	}
}

func TestSetTagInDescription(t *testing.T) {
	v := mustParse(t, `{"blueprint":{"label":"L"}}`)
	e := mustEntry(t, &v)
	require.NoError(t, e.SetTagInDescription("owner", "me"))
	require.NoError(t, e.SetTagInDescription("rev", "2"))
	require.NoError(t, e.SetTagInDescription("owner", "you"))
	assert.Equal(t, `{"blueprint":{"label":"L","description":"owner: you\nrev: 2"}}`, v.String())

	bad := mustParse(t, `{"blueprint":{"description":7}}`)
	assert.Error(t, mustEntry(t, &bad).SetTagInDescription("a", "b"))
}

func TestNextQuality(t *testing.T) {
	steps := map[string]string{
		QualityNormal:    QualityUncommon,
		QualityUncommon:  QualityRare,
		QualityRare:      QualityEpic,
		QualityEpic:      QualityLegendary,
		QualityLegendary: QualityLegendary,
	}
	for from, want := range steps {
		got, err := NextQuality(from)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := NextQuality("mythic")
	assert.ErrorIs(t, err, ErrUnknownQuality)
}

func TestCount_Fixtures(t *testing.T) {
	tests := []struct {
		fixture string
		want    Counts
	}{
		{"count_rails", Counts{{Name: "rail"}: 78}},
		{"count_station", Counts{
			{Name: "arithmetic-combinator"}: 9,
			{Name: "big-electric-pole"}:     5,
			{Name: "constant-combinator"}:   9,
			{Name: "rail"}:                  250,
			{Name: "fast-inserter"}:         46,
			{Name: "iron-chest"}:            2,
			{Name: "medium-electric-pole"}:  11,
			{Name: "radar"}:                 1,
			{Name: "rail-chain-signal"}:     19,
			{Name: "rail-signal"}:           2,
			{Name: "roboport"}:              4,
			{Name: "small-lamp"}:            19,
			{Name: "splitter"}:              1,
			{Name: "storage-chest"}:         43,
			{Name: "train-stop"}:            2,
			{Name: "transport-belt"}:        13,
		}},
		{"count_book", bookCounts()},
		{"count_nested_book", bookCounts()},
		{"deconstruction", Counts{}},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			v := loadFixture(t, tt.fixture)
			got, err := Count(&v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func bookCounts() Counts {
	return Counts{
		{Name: "assembling-machine-3", Quality: "uncommon"}: 2,
		{Name: "bulk-inserter"}:                             4,
		{Name: "express-transport-belt"}:                    33,
		{Name: "long-handed-inserter"}:                      2,
		{Name: "medium-electric-pole"}:                      2,
		{Name: "turbo-transport-belt"}:                      9,
	}
}

func TestCount_IgnoresNestedBlueprintKeys(t *testing.T) {
	// Only entities arrays of real entries are counted.
	v := mustParse(t, `{"blueprint":{"entities":[{"name":"pipe","tags":{"blueprint":{"entities":[{"name":"ghost"}]}}}]}}`)
	got, err := Count(&v)
	require.NoError(t, err)
	assert.Equal(t, Counts{{Name: "pipe"}: 1}, got)
}

func TestCount_MissingName(t *testing.T) {
	v := mustParse(t, `{"blueprint":{"entities":[{"entity_number":1}]}}`)
	_, err := Count(&v)
	assert.Error(t, err)
}

func TestCountsSorted(t *testing.T) {
	c := Counts{
		{Name: "b"}:                  2,
		{Name: "a"}:                  2,
		{Name: "a", Quality: "rare"}: 2,
		{Name: "z"}:                  9,
	}
	assert.Equal(t, []api.EntityCount{
		{Name: "z", Count: 9},
		{Name: "a", Count: 2},
		{Name: "a", Quality: "rare", Count: 2},
		{Name: "b", Count: 2},
	}, c.Sorted())
	assert.Equal(t, uint64(15), c.Total())
}

func TestUpgradeQuality_Book(t *testing.T) {
	v := loadFixture(t, "book")
	require.NoError(t, UpgradeQuality(&v))

	first := v.Lookup("blueprint_book", "blueprints").Index(0)
	q, _ := first.Lookup("blueprint", "entities").Index(0).Get("filters").Index(0).Get("quality").AsString()
	assert.Equal(t, QualityRare, q)

	nested := v.Lookup("blueprint_book", "blueprints").Index(1).Lookup("blueprint_book", "blueprints").Index(0)
	q, _ = nested.Lookup("blueprint", "entities").Index(0).Get("filters").Index(0).Get("quality").AsString()
	assert.Equal(t, QualityEpic, q)
}

func TestUpgradeQuality_AllSites(t *testing.T) {
	v := mustParse(t, `{"blueprint":{"entities":[{
		"name":"assembling-machine-3","quality":"rare","recipe_quality":"normal",
		"control_behavior":{
			"circuit_condition":{"first_signal":{"name":"a","quality":"uncommon"},"second_signal":{"name":"b","quality":"normal"}},
			"logistic_condition":{"first_signal":{"name":"c","quality":"epic"}}
		},
		"filter":{"name":"d","quality":"legendary"},
		"filters":[{"name":"e","quality":"normal"},{"name":"f"}],
		"request_filters":{"sections":[{"filters":[{"name":"g","quality":"rare"}]},{"index":2}]}
	}]}}`)
	require.NoError(t, UpgradeQuality(&v))

	e := v.Lookup("blueprint", "entities").Index(0)
	get := func(q *value.Value) string {
		s, _ := q.AsString()
		return s
	}
	assert.Equal(t, QualityRare, get(e.Get("quality")))
	assert.Equal(t, QualityUncommon, get(e.Get("recipe_quality")))
	assert.Equal(t, QualityRare, get(e.Lookup("control_behavior", "circuit_condition", "first_signal", "quality")))
	assert.Equal(t, QualityNormal, get(e.Lookup("control_behavior", "circuit_condition", "second_signal", "quality")))
	assert.Equal(t, QualityLegendary, get(e.Lookup("control_behavior", "logistic_condition", "first_signal", "quality")))
	assert.Equal(t, QualityLegendary, get(e.Lookup("filter", "quality")))
	assert.Equal(t, QualityUncommon, get(e.Get("filters").Index(0).Get("quality")))
	assert.Nil(t, e.Get("filters").Index(1).Get("quality"))
	assert.Equal(t, QualityEpic, get(e.Get("request_filters").Get("sections").Index(0).Get("filters").Index(0).Get("quality")))
}

func TestUpgradeQuality_UnknownQuality(t *testing.T) {
	v := mustParse(t, `{"blueprint":{"entities":[{"entity_number":4,"name":"x","filter":{"quality":"shiny"}}]}}`)
	err := UpgradeQuality(&v)
	assert.ErrorIs(t, err, ErrUnknownQuality)
	assert.Contains(t, err.Error(), "entity 4")
}

func TestConstantCombinator(t *testing.T) {
	doc, err := ConstantCombinator([]api.EntityCount{
		{Name: "rail", Count: 78},
		{Name: "assembling-machine-3", Quality: "uncommon", Count: 2},
	})
	require.NoError(t, err)

	filters := doc.Lookup("blueprint", "entities").Index(0).Lookup("control_behavior", "filters")
	assert.Equal(t,
		`[{"index":1,"count":78,"signal":{"type":"item","name":"rail"}},{"index":2,"count":2,"signal":{"type":"item","name":"assembling-machine-3","quality":"uncommon"}}]`,
		filters.String())

	// The result is itself a countable blueprint.
	counts, err := Count(&doc)
	require.NoError(t, err)
	assert.Equal(t, Counts{{Name: "constant-combinator"}: 1}, counts)
}
