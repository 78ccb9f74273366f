package layout

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"techtree-backend/application/ports"
	"techtree-backend/domain/core/valueobjects"
)

var box = valueobjects.Size{Width: 150, Height: 50}

func request(algo ports.LayoutAlgorithm, ids []string, edges [][2]string) ports.LayoutRequest {
	req := ports.LayoutRequest{
		Options: ports.LayoutOptions{Algorithm: algo, LayerSpacing: 100, NodeSpacing: 20},
	}
	for _, id := range ids {
		req.Nodes = append(req.Nodes, ports.LayoutNode{ID: id, Size: box})
	}
	for _, e := range edges {
		req.Edges = append(req.Edges, ports.LayoutEdge{Source: e[0], Target: e[1]})
	}
	return req
}

func TestLayered_Chain(t *testing.T) {
	// Arrange
	req := request(ports.LayoutLayered, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	// Act
	got, err := NewEngine().Layout(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, valueobjects.Position{X: 75, Y: 25}, got["a"])
	assert.Equal(t, valueobjects.Position{X: 325, Y: 25}, got["b"])
	assert.Equal(t, valueobjects.Position{X: 575, Y: 25}, got["c"])
}

func TestLayered_StacksSiblings(t *testing.T) {
	// Arrange: a fans out to b and c.
	req := request(ports.LayoutLayered, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}})

	// Act
	got, err := NewEngine().Layout(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, got["b"].X, got["c"].X)
	assert.InDelta(t, 70, got["c"].Y-got["b"].Y, 1e-9)
	// Single-node layer is centred on the taller one.
	assert.InDelta(t, (got["b"].Y+got["c"].Y)/2, got["a"].Y, 1e-9)
}

func TestLayered_LongestPath(t *testing.T) {
	// a->c directly and a->b->c: c must sit two layers right of a.
	req := request(ports.LayoutLayered, []string{"a", "b", "c"}, [][2]string{{"a", "c"}, {"a", "b"}, {"b", "c"}})

	got, err := NewLayered().Layout(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, float64(575), got["c"].X)
}

func TestLayered_CyclesShareLayer(t *testing.T) {
	req := request(ports.LayoutLayered, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}})

	got, err := NewLayered().Layout(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, got["a"].X, got["b"].X)
	assert.Greater(t, got["c"].X, got["b"].X)
}

func TestEngine_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  ports.LayoutRequest
	}{
		{"unknown algorithm", request("spiral", []string{"a"}, nil)},
		{"unknown endpoint", request(ports.LayoutLayered, []string{"a"}, [][2]string{{"a", "ghost"}})},
		{"duplicate node", request(ports.LayoutForce, []string{"a", "a"}, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine().Layout(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Layout(ctx, request(ports.LayoutLayered, []string{"a"}, nil))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Empty(t *testing.T) {
	for _, algo := range []ports.LayoutAlgorithm{ports.LayoutLayered, ports.LayoutForce} {
		got, err := NewEngine().Layout(context.Background(), request(algo, nil, nil))
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestForce_Deterministic(t *testing.T) {
	req := request(ports.LayoutForce,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}, {"a", "a"}},
	)

	first, err := NewForce().Layout(context.Background(), req)
	require.NoError(t, err)
	second, err := NewForce().Layout(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Every algorithm must place every node with its box inside the positive quadrant.
func TestLayout_CoversAllNodes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("n%d", i)
		}
		var edges [][2]string
		m := rapid.IntRange(0, 20).Draw(t, "edges")
		for i := 0; i < m; i++ {
			a := rapid.IntRange(0, n-1).Draw(t, "src")
			b := rapid.IntRange(0, n-1).Draw(t, "dst")
			edges = append(edges, [2]string{ids[a], ids[b]})
		}
		algo := rapid.SampledFrom([]ports.LayoutAlgorithm{ports.LayoutLayered, ports.LayoutForce}).Draw(t, "algo")

		got, err := NewEngine().Layout(context.Background(), request(algo, ids, edges))
		if err != nil {
			t.Fatalf("layout failed: %v", err)
		}
		if len(got) != n {
			t.Fatalf("got %d anchors, want %d", len(got), n)
		}
		for _, id := range ids {
			p, ok := got[id]
			if !ok {
				t.Fatalf("missing anchor for %s", id)
			}
			if p.X < box.Width/2-0.01 || p.Y < box.Height/2-0.01 {
				t.Fatalf("anchor %v for %s puts the box off canvas", p, id)
			}
		}
	})
}
