package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{name: "slug", input: "tokamak"},
		{name: "mixed case with dashes", input: "HTS-Magnets_2"},
		{name: "empty string", input: "", wantErr: true, errMsg: "node ID cannot be empty"},
		{name: "whitespace only", input: "   ", wantErr: true, errMsg: "whitespace"},
		{name: "inner space", input: "first plasma", wantErr: true, errMsg: "whitespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewNodeID(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestNodeIDTextRoundTrip(t *testing.T) {
	var id NodeID
	require.NoError(t, id.UnmarshalText([]byte("stellarator")))
	assert.True(t, id.Equals(MustNodeID("stellarator")))

	assert.Error(t, id.UnmarshalText([]byte("has space")))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("milestone")
	require.NoError(t, err)
	assert.Equal(t, CategoryMilestone, c)

	_, err = ParseCategory("Gadget")
	assert.Error(t, err)

	assert.True(t, CategoryReactorConcept.IsValid())
	assert.False(t, Category("Other").IsValid())
}

func TestGroupingModes(t *testing.T) {
	modes := AllGroupingModes()
	require.Len(t, modes, 4)
	assert.Equal(t, GroupingNone, modes[0])
	assert.Equal(t, "No Grouping", modes[0].DisplayLabel())
	assert.Equal(t, "Milestone", modes[2].DisplayLabel())

	g, err := ParseGroupingMode("")
	require.NoError(t, err)
	_, ok := g.Category()
	assert.False(t, ok)

	g, err = ParseGroupingMode("EnablingTechnology")
	require.NoError(t, err)
	c, ok := g.Category()
	assert.True(t, ok)
	assert.Equal(t, CategoryEnablingTechnology, c)

	_, err = ParseGroupingMode("Everything")
	assert.Error(t, err)
}

func TestTRL(t *testing.T) {
	tests := []struct {
		level   int
		want    string
		wantErr bool
	}{
		{level: 0, want: "N/A"},
		{level: 1, want: "1"},
		{level: 9, want: "9"},
		{level: 10, wantErr: true},
		{level: -1, wantErr: true},
	}

	for _, tt := range tests {
		trl, err := NewTRL(tt.level)
		if tt.wantErr {
			assert.Error(t, err, "level %d", tt.level)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, trl.String())
	}
}

func TestPositionTopLeft(t *testing.T) {
	p := Position{X: 75, Y: 25}
	assert.Equal(t, Position{X: 0, Y: 0}, p.TopLeft(Size{Width: 150, Height: 50}))
}
