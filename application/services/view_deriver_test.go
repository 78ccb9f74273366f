package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techtree-backend/application/ports"
	"techtree-backend/domain/config"
	"techtree-backend/domain/core/aggregates/fixtures"
	"techtree-backend/domain/core/valueobjects"
	pkgerrors "techtree-backend/pkg/errors"
)

func newTestDeriver(layouter ports.Layouter) *ViewDeriver {
	return NewViewDeriver(
		ports.StaticSource{Tree: fixtures.Chain()},
		layouter,
		config.DefaultDomainConfig(),
		ports.LayoutLayered,
		nil,
		nil,
		zap.NewNop(),
	)
}

func TestViewDeriver_Derive(t *testing.T) {
	// Arrange
	deriver := newTestDeriver(gridLayouter{})

	// Act
	view, err := deriver.Derive(context.Background(), ViewState{FocusNodeID: "B"}, "")

	// Assert
	require.NoError(t, err)
	require.Len(t, view.Nodes, 3)
	require.Len(t, view.Edges, 2)
	assert.Equal(t, uint64(1), view.Revision)
	assert.Equal(t, "layered", view.Algorithm)
	assert.Equal(t, "B", view.FocusNodeID)

	a := view.Nodes[0]
	assert.Equal(t, valueobjects.Position{X: 0, Y: 0}, a.Position)
	assert.Equal(t, 150.0, a.Width)
	assert.Equal(t, 50.0, a.Height)
	assert.Equal(t, "right", a.SourcePosition)
	assert.Equal(t, "left", a.TargetPosition)
	assert.Equal(t, "oklch(62.3% 0.214 259.815)", a.Style.BorderColor)
	assert.Equal(t, 1, a.Style.BorderWidth)
	assert.Equal(t, "none", a.Style.BoxShadow)
	assert.Equal(t, "normal", a.Style.FontWeight)

	b := view.Nodes[1]
	assert.True(t, b.Focused)
	assert.Equal(t, valueobjects.Position{X: 200, Y: 0}, b.Position)
	assert.Equal(t, 3, b.Style.BorderWidth)
	assert.Equal(t, "0 0 0 2px #f97316", b.Style.BoxShadow)
	assert.Equal(t, "bold", b.Style.FontWeight)
	assert.Equal(t, "oklch(72.3% 0.219 149.579)", b.Style.BorderColor)

	e := view.Edges[0]
	assert.Equal(t, "A-B", e.ID)
	assert.Equal(t, "#374151", e.Style.Stroke)
	assert.Equal(t, 1, e.Style.StrokeWidth)
	assert.Equal(t, ArrowMarker{Type: "arrowclosed", Width: 20, Height: 20, Color: "#374151"}, e.MarkerEnd)

	assert.Equal(t, valueobjects.Size{Width: 550, Height: 50}, view.Bounds)
}

func TestViewDeriver_PassesSpacingToLayouter(t *testing.T) {
	// Arrange
	layouter := new(MockLayouter)
	layouter.On("Layout", mock.Anything, mock.MatchedBy(func(req ports.LayoutRequest) bool {
		return req.Options.Algorithm == ports.LayoutForce &&
			req.Options.LayerSpacing == 100 &&
			req.Options.NodeSpacing == 20 &&
			len(req.Nodes) == 3 && len(req.Edges) == 2
	})).Return(map[string]valueobjects.Position{
		"A": {X: 75, Y: 25}, "B": {X: 75, Y: 125}, "C": {X: 75, Y: 225},
	}, nil)
	deriver := newTestDeriver(layouter)

	// Act
	view, err := deriver.Derive(context.Background(), ViewState{}, ports.LayoutForce)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "force", view.Algorithm)
	assert.Equal(t, valueobjects.Position{X: 0, Y: 200}, view.Nodes[2].Position)
	layouter.AssertExpectations(t)
}

func TestViewDeriver_LayoutFailureIsExternal(t *testing.T) {
	layouter := new(MockLayouter)
	layouter.On("Layout", mock.Anything, mock.Anything).Return(nil, errors.New("engine crashed"))
	deriver := newTestDeriver(layouter)

	view, err := deriver.Derive(context.Background(), ViewState{}, "")

	assert.Nil(t, view)
	assert.True(t, pkgerrors.IsExternal(err))
	assert.Contains(t, err.Error(), "engine crashed")
}

func TestViewDeriver_MissingAnchorIsExternal(t *testing.T) {
	layouter := new(MockLayouter)
	layouter.On("Layout", mock.Anything, mock.Anything).Return(map[string]valueobjects.Position{"A": {}}, nil)
	deriver := newTestDeriver(layouter)

	_, err := deriver.Derive(context.Background(), ViewState{}, "")

	assert.True(t, pkgerrors.IsExternal(err))
}

func TestViewDeriver_EmptySelectionSkipsLayout(t *testing.T) {
	layouter := new(MockLayouter)
	deriver := newTestDeriver(layouter)

	view, err := deriver.Derive(context.Background(), ViewState{Search: "nothing-matches"}, "")

	require.NoError(t, err)
	assert.Empty(t, view.Nodes)
	assert.Empty(t, view.Edges)
	layouter.AssertNotCalled(t, "Layout", mock.Anything, mock.Anything)
}

func TestViewDeriver_NoDataset(t *testing.T) {
	deriver := NewViewDeriver(ports.StaticSource{}, gridLayouter{}, nil, "", nil, nil, zap.NewNop())

	_, err := deriver.Derive(context.Background(), ViewState{}, "")

	assert.True(t, pkgerrors.IsConfiguration(err))
}
