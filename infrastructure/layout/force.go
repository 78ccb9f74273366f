package layout

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"techtree-backend/application/ports"
	"techtree-backend/domain/core/valueobjects"
)

const (
	defaultIterations = 300
	defaultGravity    = 0.05
)

// Force is a deterministic Fruchterman-Reingold layout. Nodes start on a
// circle in request order so equal inputs always produce equal output.
type Force struct {
	iterations int
	gravity    float64
}

// NewForce creates a force layout with default tuning.
func NewForce() *Force {
	return &Force{iterations: defaultIterations, gravity: defaultGravity}
}

// Layout implements ports.Layouter.
func (f *Force) Layout(ctx context.Context, req ports.LayoutRequest) (map[string]valueobjects.Position, error) {
	ig, err := buildGraph(req)
	if err != nil {
		return nil, err
	}
	n := ig.len()
	if n == 0 {
		return map[string]valueobjects.Position{}, nil
	}

	// Ideal edge length: one box plus one layer gap.
	var avg valueobjects.Size
	for _, s := range ig.sizes {
		avg.Width += s.Width / float64(n)
		avg.Height += s.Height / float64(n)
	}
	k := math.Max(avg.Width, avg.Height) + spacingOr(req.Options.LayerSpacing, DefaultLayerSpacing)

	pos := make([]r2.Vec, n)
	radius := k * float64(n) / (2 * math.Pi)
	for i := range pos {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pos[i] = r2.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}

	type pair struct{ a, b int64 }
	var edges []pair
	for id := int64(0); id < int64(n); id++ {
		for _, s := range ig.successors(id) {
			edges = append(edges, pair{id, s})
		}
	}

	temp := k * math.Sqrt(float64(n))
	cool := temp / float64(f.iterations+1)
	disp := make([]r2.Vec, n)

	for it := 0; it < f.iterations; it++ {
		if it%50 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for i := range disp {
			disp[i] = r2.Vec{}
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				delta := r2.Sub(pos[i], pos[j])
				d := r2.Norm(delta)
				if d < 1e-6 {
					// Coincident nodes: push apart along a fixed diagonal.
					delta = r2.Vec{X: float64(j - i), Y: float64(i - j + 1)}
					d = r2.Norm(delta)
				}
				push := r2.Scale(k*k/(d*d), delta)
				disp[i] = r2.Add(disp[i], push)
				disp[j] = r2.Sub(disp[j], push)
			}
		}

		for _, e := range edges {
			delta := r2.Sub(pos[e.a], pos[e.b])
			d := r2.Norm(delta)
			if d < 1e-6 {
				continue
			}
			pull := r2.Scale(d/k, delta)
			disp[e.a] = r2.Sub(disp[e.a], pull)
			disp[e.b] = r2.Add(disp[e.b], pull)
		}

		for i := range pos {
			disp[i] = r2.Sub(disp[i], r2.Scale(f.gravity, pos[i]))
			d := r2.Norm(disp[i])
			if d < 1e-9 {
				continue
			}
			step := math.Min(d, temp)
			pos[i] = r2.Add(pos[i], r2.Scale(step/d, disp[i]))
		}
		temp -= cool
	}

	return normalize(ig, pos), nil
}

// normalize shifts the layout so every box top-left is non-negative.
func normalize(ig *indexedGraph, pos []r2.Vec) map[string]valueobjects.Position {
	minX, minY := math.Inf(1), math.Inf(1)
	for i, p := range pos {
		minX = math.Min(minX, p.X-ig.sizes[i].Width/2)
		minY = math.Min(minY, p.Y-ig.sizes[i].Height/2)
	}
	out := make(map[string]valueobjects.Position, len(pos))
	for i, p := range pos {
		out[ig.ids[i]] = valueobjects.Position{
			X: math.Round((p.X-minX)*100) / 100,
			Y: math.Round((p.Y-minY)*100) / 100,
		}
	}
	return out
}
