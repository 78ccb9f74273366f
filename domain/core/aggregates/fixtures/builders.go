// Package fixtures builds small tech trees for tests.
package fixtures

import (
	"techtree-backend/domain/core/aggregates"
	"techtree-backend/domain/core/entities"
	"techtree-backend/domain/core/validators"
)

// TreeBuilder helps create test trees with default values
type TreeBuilder struct {
	nodes    []entities.NodeSpec
	edges    []validators.EdgeSpec
	revision uint64
}

func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{revision: 1}
}

// WithNode adds a node whose label defaults to its id.
func (b *TreeBuilder) WithNode(id, category string) *TreeBuilder {
	return b.WithSpec(entities.NodeSpec{ID: id, Label: id, Category: category})
}

func (b *TreeBuilder) WithSpec(spec entities.NodeSpec) *TreeBuilder {
	b.nodes = append(b.nodes, spec)
	return b
}

func (b *TreeBuilder) WithEdge(source, target string) *TreeBuilder {
	b.edges = append(b.edges, validators.EdgeSpec{Source: source, Target: target})
	return b
}

func (b *TreeBuilder) WithRevision(rev uint64) *TreeBuilder {
	b.revision = rev
	return b
}

func (b *TreeBuilder) Build() (*aggregates.TechTree, error) {
	tree, err := aggregates.NewTechTree(b.nodes, b.edges, nil)
	if err != nil {
		return nil, err
	}
	return tree.WithRevision(b.revision, "fixture"), nil
}

func (b *TreeBuilder) MustBuild() *aggregates.TechTree {
	tree, err := b.Build()
	if err != nil {
		panic(err)
	}
	return tree
}

// Chain returns A→B→C with one node per category.
func Chain() *aggregates.TechTree {
	return NewTreeBuilder().
		WithNode("A", "ReactorConcept").
		WithNode("B", "Milestone").
		WithNode("C", "EnablingTechnology").
		WithEdge("A", "B").
		WithEdge("B", "C").
		MustBuild()
}

// Fusion returns a small realistic tree with mixed categories.
func Fusion() *aggregates.TechTree {
	return NewTreeBuilder().
		WithSpec(entities.NodeSpec{ID: "tokamak", Label: "Tokamak", Category: "ReactorConcept", TRL: 6, Description: "Toroidal magnetic confinement"}).
		WithSpec(entities.NodeSpec{ID: "stellarator", Label: "Stellarator", Category: "ReactorConcept", TRL: 5}).
		WithSpec(entities.NodeSpec{ID: "hts", Label: "HTS Magnets", Category: "EnablingTechnology", TRL: 5}).
		WithSpec(entities.NodeSpec{ID: "tritium", Label: "Tritium Breeding", Category: "EnablingTechnology", TRL: 3}).
		WithSpec(entities.NodeSpec{ID: "q1", Label: "Scientific Breakeven (Q>1)", Category: "Milestone"}).
		WithSpec(entities.NodeSpec{ID: "pilot", Label: "Pilot Plant", Category: "Milestone"}).
		WithEdge("hts", "tokamak").
		WithEdge("hts", "stellarator").
		WithEdge("tokamak", "q1").
		WithEdge("stellarator", "q1").
		WithEdge("q1", "pilot").
		WithEdge("tritium", "pilot").
		WithEdge("tokamak", "stellarator").
		MustBuild()
}
