// Package layout places tech tree nodes on a plane.
package layout

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"techtree-backend/application/ports"
	"techtree-backend/domain/core/valueobjects"
)

// Engine dispatches to the layered or force-directed implementation.
type Engine struct {
	layered *Layered
	force   *Force
}

var _ ports.Layouter = (*Engine)(nil)

// NewEngine creates an engine with default tuning for both algorithms.
func NewEngine() *Engine {
	return &Engine{
		layered: NewLayered(),
		force:   NewForce(),
	}
}

// Layout implements ports.Layouter.
func (e *Engine) Layout(ctx context.Context, req ports.LayoutRequest) (map[string]valueobjects.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch req.Options.Algorithm {
	case "", ports.LayoutLayered:
		return e.layered.Layout(ctx, req)
	case ports.LayoutForce:
		return e.force.Layout(ctx, req)
	default:
		return nil, fmt.Errorf("unknown layout algorithm %q", req.Options.Algorithm)
	}
}

// indexedGraph is the request rebuilt as a gonum graph keyed by request order.
type indexedGraph struct {
	g     *simple.DirectedGraph
	ids   []string
	sizes []valueobjects.Size
	index map[string]int64
}

func buildGraph(req ports.LayoutRequest) (*indexedGraph, error) {
	ig := &indexedGraph{
		g:     simple.NewDirectedGraph(),
		ids:   make([]string, len(req.Nodes)),
		sizes: make([]valueobjects.Size, len(req.Nodes)),
		index: make(map[string]int64, len(req.Nodes)),
	}
	for i, n := range req.Nodes {
		if _, dup := ig.index[n.ID]; dup {
			return nil, fmt.Errorf("duplicate layout node %q", n.ID)
		}
		id := int64(i)
		ig.index[n.ID] = id
		ig.ids[i] = n.ID
		ig.sizes[i] = n.Size
		ig.g.AddNode(simple.Node(id))
	}
	for _, e := range req.Edges {
		from, ok := ig.index[e.Source]
		if !ok {
			return nil, fmt.Errorf("layout edge references unknown node %q", e.Source)
		}
		to, ok := ig.index[e.Target]
		if !ok {
			return nil, fmt.Errorf("layout edge references unknown node %q", e.Target)
		}
		// simple graphs panic on self loops; they carry no placement information.
		if from == to {
			continue
		}
		ig.g.SetEdge(ig.g.NewEdge(simple.Node(from), simple.Node(to)))
	}
	return ig, nil
}

func (ig *indexedGraph) len() int { return len(ig.ids) }

func (ig *indexedGraph) successors(id int64) []int64 {
	return collect(ig.g.From(id))
}

func (ig *indexedGraph) predecessors(id int64) []int64 {
	return collect(ig.g.To(id))
}

// neighbors ignores direction.
func (ig *indexedGraph) neighbors(id int64) []int64 {
	out := ig.successors(id)
	for _, p := range ig.predecessors(id) {
		if !ig.g.HasEdgeFromTo(id, p) {
			out = append(out, p)
		}
	}
	return out
}

// collect drains a node iterator into sorted ids so results never depend
// on map iteration order.
func collect(it graph.Nodes) []int64 {
	var out []int64
	for it.Next() {
		out = append(out, it.Node().ID())
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func spacingOr(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
