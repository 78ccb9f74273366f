package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtree-backend/application/services"
	"techtree-backend/domain/core/valueobjects"
)

func sampleView() *services.DerivedView {
	trl := 6
	return &services.DerivedView{
		Nodes: []services.ViewNode{
			{
				ID: "tokamak", Label: "Tokamak", Category: "ReactorConcept", TRL: &trl,
				Position: valueobjects.Position{X: 0, Y: 0}, Width: 150, Height: 50,
				Focused: true,
				Style:   services.NodeStyle{BorderColor: "#ef4444", BorderWidth: 3, BoxShadow: "0 0 0 2px #f97316", FontWeight: "bold"},
			},
			{
				ID: "q1", Label: "Scientific Breakeven (Q>1)", Category: "Milestone",
				Position: valueobjects.Position{X: 250, Y: 0}, Width: 150, Height: 50,
				Style: services.NodeStyle{BorderColor: "#3b82f6", BorderWidth: 1, BoxShadow: "none", FontWeight: "normal"},
			},
		},
		Edges: []services.ViewEdge{{
			ID: "tokamak-q1", Source: "tokamak", Target: "q1",
			Style:     services.EdgeStyle{Stroke: "#374151", StrokeWidth: 1},
			MarkerEnd: services.ArrowMarker{Type: "arrowclosed", Width: 20, Height: 20, Color: "#374151"},
		}},
		Bounds: valueobjects.Size{Width: 400, Height: 50},
	}
}

func TestSVG(t *testing.T) {
	// Arrange
	var buf bytes.Buffer

	// Act
	err := SVG(&buf, sampleView())

	// Assert
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="440"`)
	assert.Contains(t, out, "stroke:#f97316")
	assert.Contains(t, out, "stroke:#ef4444;stroke-width:3")
	assert.Contains(t, out, "Scientific Breakeven (Q&gt;1)")
	assert.Contains(t, out, "TRL 6")
	assert.Equal(t, 1, strings.Count(out, "<line"))
	assert.Equal(t, 1, strings.Count(out, "<polygon"))
	assert.Contains(t, out, "</svg>")
}

func TestSVG_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, SVG(&buf, &services.DerivedView{}))

	assert.NotContains(t, buf.String(), "<line")
}

func TestSVG_NilView(t *testing.T) {
	assert.Error(t, SVG(&bytes.Buffer{}, nil))
}

func TestRingColor(t *testing.T) {
	assert.Equal(t, "", ringColor("none"))
	assert.Equal(t, "", ringColor(""))
	assert.Equal(t, "#f97316", ringColor("0 0 0 2px #f97316"))
}
