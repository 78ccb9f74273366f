package handlers

import (
	"context"
	"time"

	"techtree-backend/application/ports"
	"techtree-backend/application/queries"
	"techtree-backend/domain/config"
	"techtree-backend/domain/core/entities"
	"techtree-backend/domain/core/valueobjects"
	pkgerrors "techtree-backend/pkg/errors"
)

// TreeHandler answers read queries over the raw dataset
type TreeHandler struct {
	source ports.TechTreeSource
	config *config.DomainConfig
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(source ports.TechTreeSource, cfg *config.DomainConfig) *TreeHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &TreeHandler{source: source, config: cfg}
}

// HandleGetTree returns every node and edge with category metadata
func (h *TreeHandler) HandleGetTree(ctx context.Context, query queries.GetTreeQuery) (*queries.GetTreeResult, error) {
	tree := h.source.Current()
	if tree == nil {
		return nil, pkgerrors.NewConfigurationError("tech tree dataset is not loaded").WithCode("DATASET_NOT_LOADED")
	}

	result := &queries.GetTreeResult{
		Revision: tree.Revision(),
		Source:   tree.Source(),
		LoadedAt: tree.LoadedAt().Format(time.RFC3339),
		Nodes:    make([]queries.NodeDTO, 0, len(tree.Nodes())),
		Edges:    make([]queries.EdgeDTO, 0, len(tree.Edges())),
	}
	for _, n := range tree.Nodes() {
		result.Nodes = append(result.Nodes, toNodeDTO(n))
	}
	for _, e := range tree.Edges() {
		result.Edges = append(result.Edges, queries.EdgeDTO{ID: e.ID(), Source: e.Source().String(), Target: e.Target().String()})
	}

	counts := tree.CountByCategory()
	for _, c := range valueobjects.AllCategories() {
		result.Categories = append(result.Categories, queries.CategoryDTO{
			Name:  c.String(),
			Color: h.config.ColorFor(c),
			Count: counts[c],
		})
	}
	return result, nil
}

// HandleGetNode returns one node with its direct dependencies
func (h *TreeHandler) HandleGetNode(ctx context.Context, query queries.GetNodeQuery) (*queries.GetNodeResult, error) {
	tree := h.source.Current()
	if tree == nil {
		return nil, pkgerrors.NewConfigurationError("tech tree dataset is not loaded").WithCode("DATASET_NOT_LOADED")
	}

	id, err := valueobjects.NewNodeID(query.NodeID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	node, ok := tree.Node(id)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node " + query.NodeID)
	}

	return &queries.GetNodeResult{
		Node:         toNodeDTO(node),
		Color:        h.config.ColorFor(node.Category()),
		Predecessors: toNodeDTOs(tree.Predecessors(id)),
		Successors:   toNodeDTOs(tree.Successors(id)),
		Revision:     tree.Revision(),
	}, nil
}

// HandleListGroupings returns "None" followed by every category
func (h *TreeHandler) HandleListGroupings(ctx context.Context, query queries.ListGroupingsQuery) ([]queries.GroupingOption, error) {
	modes := valueobjects.AllGroupingModes()
	out := make([]queries.GroupingOption, 0, len(modes))
	for _, m := range modes {
		out = append(out, queries.GroupingOption{Value: string(m), Label: m.DisplayLabel()})
	}
	return out, nil
}

func toNodeDTO(n *entities.Node) queries.NodeDTO {
	dto := queries.NodeDTO{
		ID:                  n.ID().String(),
		Label:               n.Label(),
		Category:            n.Category().String(),
		Description:         n.Description(),
		DetailedDescription: n.DetailedDescription(),
	}
	if n.TRL().Known() {
		trl := int(n.TRL())
		dto.TRL = &trl
	}
	return dto
}

func toNodeDTOs(nodes []*entities.Node) []queries.NodeDTO {
	out := make([]queries.NodeDTO, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toNodeDTO(n))
	}
	return out
}
