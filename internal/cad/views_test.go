package cad

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"Level 2 - Scale 96", "Level 2"},
		{"Roof - Scale 48", "Roof"},
		{"Level 1 - Scale 96 - Scale 48", "Level 1"}, // first delimiter wins
		{"Unnamed plan", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, GroupKeyFromName(tt.name), "name %q", tt.name)
	}
}

func TestItemFromView(t *testing.T) {
	v := View{
		ID:         "v-1",
		Name:       "Level 2 - Scale 96",
		ViewType:   "FloorPlan",
		Scale:      96,
		CropWidth:  192,
		CropHeight: 96,
		Placeable:  true,
	}
	item := ItemFromView(v)

	assert.Equal(t, "v-1", item.ID)
	assert.Equal(t, "Level 2", item.GroupKey)
	assert.Equal(t, 96, item.PriorityRank)
	assert.InDelta(t, 2.0, item.Width, 1e-9)
	assert.InDelta(t, 1.0, item.Height, 1e-9)
	assert.True(t, item.Placeable)
}

func TestItemFromView_ZeroScale(t *testing.T) {
	item := ItemFromView(View{Name: "Detail", Scale: 0, CropWidth: 3, CropHeight: 2})
	assert.InDelta(t, 3.0, item.Width, 1e-9)
	assert.InDelta(t, 2.0, item.Height, 1e-9)
	assert.Equal(t, 0, item.PriorityRank)
}

// stubDoc is a minimal Document for exercising CollectItems.
type stubDoc struct {
	Document
	views []View
}

func (d stubDoc) Views() []View { return d.views }

func testViews() []View {
	return []View{
		{ID: "1", Name: "Level 1 - Scale 96", ViewType: "FloorPlan", Scale: 96, CropWidth: 96, CropHeight: 96, Placeable: true},
		{ID: "2", Name: "Level 2 - Scale 96", ViewType: "FloorPlan", Scale: 96, CropWidth: 96, CropHeight: 96, Placeable: true},
		{ID: "3", Name: "North Elevation", ViewType: "Elevation", Scale: 48, CropWidth: 48, CropHeight: 48, Placeable: true},
		{ID: "4", Name: "Level 3 - Scale 96", ViewType: "FloorPlan", Scale: 96, CropWidth: 96, CropHeight: 96, Placeable: false},
	}
}

func TestCollectItems_FiltersByViewType(t *testing.T) {
	logger := log.New(io.Discard)
	items := CollectItems(stubDoc{views: testViews()}, []string{"FloorPlan"}, 0, logger)

	// Elevation filtered out, non-placeable view filtered out.
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
}

func TestCollectItems_NoFilterAcceptsAll(t *testing.T) {
	logger := log.New(io.Discard)
	items := CollectItems(stubDoc{views: testViews()}, nil, 0, logger)
	require.Len(t, items, 3) // only the non-placeable view drops
}

func TestCollectItems_MaxViewsCap(t *testing.T) {
	logger := log.New(io.Discard)
	items := CollectItems(stubDoc{views: testViews()}, nil, 1, logger)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
}

func TestCollectItems_EmptyDocument(t *testing.T) {
	logger := log.New(io.Discard)
	assert.Empty(t, CollectItems(stubDoc{}, nil, 0, logger))
}
