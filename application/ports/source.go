package ports

import (
	"context"

	"techtree-backend/domain/core/aggregates"
)

// TechTreeSource yields the active dataset snapshot. Implementations swap
// snapshots atomically; a returned snapshot is never mutated.
type TechTreeSource interface {
	Current() *aggregates.TechTree
}

// StaticSource serves a fixed snapshot.
type StaticSource struct {
	Tree *aggregates.TechTree
}

func (s StaticSource) Current() *aggregates.TechTree { return s.Tree }

// TreeReloader re-reads the dataset from its origin and activates it.
type TreeReloader interface {
	Reload(ctx context.Context) (*aggregates.TechTree, error)
}
