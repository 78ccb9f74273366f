package ports

import (
	"context"

	"techtree-backend/domain/core/valueobjects"
)

// LayoutAlgorithm names a layout strategy.
type LayoutAlgorithm string

const (
	LayoutLayered LayoutAlgorithm = "layered"
	LayoutForce   LayoutAlgorithm = "force"
)

// ParseLayoutAlgorithm treats the empty string as the layered default.
func ParseLayoutAlgorithm(s string) (LayoutAlgorithm, bool) {
	switch LayoutAlgorithm(s) {
	case "", LayoutLayered:
		return LayoutLayered, true
	case LayoutForce:
		return LayoutForce, true
	default:
		return "", false
	}
}

// LayoutNode is a box to be placed.
type LayoutNode struct {
	ID   string
	Size valueobjects.Size
}

// LayoutEdge is a directed connection between two LayoutNodes.
type LayoutEdge struct {
	Source string
	Target string
}

// LayoutOptions tunes the engine.
type LayoutOptions struct {
	Algorithm    LayoutAlgorithm
	LayerSpacing float64
	NodeSpacing  float64
}

// LayoutRequest is the full input to a layout run.
type LayoutRequest struct {
	Nodes   []LayoutNode
	Edges   []LayoutEdge
	Options LayoutOptions
}

// Layouter computes an anchor point at the centre of each node box.
// Every requested node must appear in the result.
type Layouter interface {
	Layout(ctx context.Context, req LayoutRequest) (map[string]valueobjects.Position, error)
}
