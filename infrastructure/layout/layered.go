package layout

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/graph/topo"

	"techtree-backend/application/ports"
	"techtree-backend/domain/core/valueobjects"
)

const (
	DefaultLayerSpacing = 100
	DefaultNodeSpacing  = 20
	defaultSweeps       = 4
)

// Layered is a left-to-right Sugiyama-style layout. Strongly connected
// components share a layer, each layer is the longest path from a source,
// and nodes inside a layer are ordered by barycenter sweeps.
type Layered struct {
	sweeps int
}

// NewLayered creates a layered layout with the default number of sweeps.
func NewLayered() *Layered {
	return &Layered{sweeps: defaultSweeps}
}

// Layout implements ports.Layouter.
func (l *Layered) Layout(ctx context.Context, req ports.LayoutRequest) (map[string]valueobjects.Position, error) {
	ig, err := buildGraph(req)
	if err != nil {
		return nil, err
	}
	if ig.len() == 0 {
		return map[string]valueobjects.Position{}, nil
	}

	layers := assignLayers(ig)
	if err := l.order(ctx, ig, layers); err != nil {
		return nil, err
	}
	return placeLayers(ig, layers, req.Options), nil
}

// assignLayers returns node ids grouped by layer, each layer in request order.
func assignLayers(ig *indexedGraph) [][]int64 {
	sccs := topo.TarjanSCC(ig.g)
	comp := make([]int, ig.len())
	for ci, scc := range sccs {
		for _, n := range scc {
			comp[n.ID()] = ci
		}
	}

	succ := make([][]int, len(sccs))
	indeg := make([]int, len(sccs))
	seen := make(map[[2]int]bool)
	for id := int64(0); id < int64(ig.len()); id++ {
		for _, s := range ig.successors(id) {
			a, b := comp[id], comp[s]
			if a == b || seen[[2]int{a, b}] {
				continue
			}
			seen[[2]int{a, b}] = true
			succ[a] = append(succ[a], b)
			indeg[b]++
		}
	}

	rank := make([]int, len(sccs))
	var queue []int
	for c := range sccs {
		if indeg[c] == 0 {
			queue = append(queue, c)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, s := range succ[c] {
			if rank[c]+1 > rank[s] {
				rank[s] = rank[c] + 1
			}
			indeg[s]--
			if indeg[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	depth := 0
	for _, r := range rank {
		if r+1 > depth {
			depth = r + 1
		}
	}
	layers := make([][]int64, depth)
	for id := int64(0); id < int64(ig.len()); id++ {
		r := rank[comp[id]]
		layers[r] = append(layers[r], id)
	}
	return layers
}

// order reduces crossings by alternating downward and upward barycenter sweeps.
func (l *Layered) order(ctx context.Context, ig *indexedGraph, layers [][]int64) error {
	pos := make([]float64, ig.len())
	layerOf := make([]int, ig.len())
	for li, layer := range layers {
		for i, id := range layer {
			pos[id] = float64(i)
			layerOf[id] = li
		}
	}

	for sweep := 0; sweep < l.sweeps; sweep++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		down := sweep%2 == 0
		for step := 1; step < len(layers); step++ {
			li, ref := step, step-1
			if !down {
				li, ref = len(layers)-1-step, len(layers)-step
			}
			layer := layers[li]
			bary := make(map[int64]float64, len(layer))
			for _, id := range layer {
				bary[id] = barycenter(ig, id, ref, layerOf, pos)
			}
			sort.SliceStable(layer, func(i, j int) bool { return bary[layer[i]] < bary[layer[j]] })
			for i, id := range layer {
				pos[id] = float64(i)
			}
		}
	}
	return nil
}

// barycenter averages the positions of neighbours in the reference layer.
// A node without such neighbours keeps its current position.
func barycenter(ig *indexedGraph, id int64, ref int, layerOf []int, pos []float64) float64 {
	var sum float64
	var n int
	for _, nb := range ig.neighbors(id) {
		if layerOf[nb] == ref {
			sum += pos[nb]
			n++
		}
	}
	if n == 0 {
		return pos[id]
	}
	return sum / float64(n)
}

// placeLayers lays layers out along x and stacks each layer vertically,
// centred on the tallest layer. Anchors are box centres.
func placeLayers(ig *indexedGraph, layers [][]int64, opts ports.LayoutOptions) map[string]valueobjects.Position {
	layerGap := spacingOr(opts.LayerSpacing, DefaultLayerSpacing)
	nodeGap := spacingOr(opts.NodeSpacing, DefaultNodeSpacing)

	widths := make([]float64, len(layers))
	heights := make([]float64, len(layers))
	var tallest float64
	for li, layer := range layers {
		for i, id := range layer {
			size := ig.sizes[id]
			if size.Width > widths[li] {
				widths[li] = size.Width
			}
			heights[li] += size.Height
			if i > 0 {
				heights[li] += nodeGap
			}
		}
		if heights[li] > tallest {
			tallest = heights[li]
		}
	}

	out := make(map[string]valueobjects.Position, ig.len())
	var x float64
	for li, layer := range layers {
		y := (tallest - heights[li]) / 2
		for _, id := range layer {
			size := ig.sizes[id]
			out[ig.ids[id]] = valueobjects.Position{
				X: x + widths[li]/2,
				Y: y + size.Height/2,
			}
			y += size.Height + nodeGap
		}
		x += widths[li] + layerGap
	}
	return out
}
