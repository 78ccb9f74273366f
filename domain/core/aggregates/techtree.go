package aggregates

import (
	"sort"
	"time"

	"techtree-backend/domain/config"
	"techtree-backend/domain/core/entities"
	"techtree-backend/domain/core/validators"
	"techtree-backend/domain/core/valueobjects"
)

// TechTree is the aggregate root for the reference dataset.
// A TechTree is immutable after construction; reloads build a new one.
type TechTree struct {
	nodes    []*entities.Node
	edges    []*entities.Edge
	index    map[valueobjects.NodeID]*entities.Node
	incident map[valueobjects.NodeID][]*entities.Edge
	revision uint64
	source   string
	loadedAt time.Time
}

// NewTechTree validates the raw dataset and builds the aggregate.
// Node and edge order from the input is preserved.
func NewTechTree(nodeSpecs []entities.NodeSpec, edgeSpecs []validators.EdgeSpec, cfg *config.DomainConfig) (*TechTree, error) {
	nodes, edges, err := validators.NewTechTreeValidator(cfg).Validate(nodeSpecs, edgeSpecs)
	if err != nil {
		return nil, err
	}

	t := &TechTree{
		nodes:    nodes,
		edges:    edges,
		index:    make(map[valueobjects.NodeID]*entities.Node, len(nodes)),
		incident: make(map[valueobjects.NodeID][]*entities.Edge, len(nodes)),
		loadedAt: time.Now().UTC(),
	}
	for _, n := range nodes {
		t.index[n.ID()] = n
	}
	for _, e := range edges {
		t.incident[e.Source()] = append(t.incident[e.Source()], e)
		if !e.Source().Equals(e.Target()) {
			t.incident[e.Target()] = append(t.incident[e.Target()], e)
		}
	}
	return t, nil
}

// WithRevision returns a shallow copy stamped with a revision and origin.
func (t *TechTree) WithRevision(revision uint64, source string) *TechTree {
	cp := *t
	cp.revision = revision
	cp.source = source
	return &cp
}

// Nodes returns nodes in dataset order. Callers must not modify the slice.
func (t *TechTree) Nodes() []*entities.Node {
	return t.nodes
}

// Edges returns edges in dataset order. Callers must not modify the slice.
func (t *TechTree) Edges() []*entities.Edge {
	return t.edges
}

// Node looks up a node by id
func (t *TechTree) Node(id valueobjects.NodeID) (*entities.Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

// IncidentEdges returns every edge with id as an endpoint.
func (t *TechTree) IncidentEdges(id valueobjects.NodeID) []*entities.Edge {
	return t.incident[id]
}

// Neighbors returns nodes one edge away in either direction, sorted by id.
func (t *TechTree) Neighbors(id valueobjects.NodeID) []*entities.Node {
	seen := make(map[valueobjects.NodeID]struct{})
	var out []*entities.Node
	for _, e := range t.incident[id] {
		other := e.Other(id)
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		if n, ok := t.index[other]; ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().String() < out[j].ID().String() })
	return out
}

// Predecessors returns the sources of edges pointing at id.
func (t *TechTree) Predecessors(id valueobjects.NodeID) []*entities.Node {
	var out []*entities.Node
	for _, e := range t.incident[id] {
		if e.Target().Equals(id) {
			out = append(out, t.index[e.Source()])
		}
	}
	return out
}

// Successors returns the targets of edges leaving id.
func (t *TechTree) Successors(id valueobjects.NodeID) []*entities.Node {
	var out []*entities.Node
	for _, e := range t.incident[id] {
		if e.Source().Equals(id) {
			out = append(out, t.index[e.Target()])
		}
	}
	return out
}

// CountByCategory tallies nodes per category.
func (t *TechTree) CountByCategory() map[valueobjects.Category]int {
	counts := make(map[valueobjects.Category]int)
	for _, n := range t.nodes {
		counts[n.Category()]++
	}
	return counts
}

func (t *TechTree) Revision() uint64 {
	return t.revision
}

// Source names where the snapshot was loaded from.
func (t *TechTree) Source() string {
	return t.source
}

func (t *TechTree) LoadedAt() time.Time {
	return t.loadedAt
}
