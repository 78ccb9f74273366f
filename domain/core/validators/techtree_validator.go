package validators

import (
	"fmt"

	"techtree-backend/domain/config"
	"techtree-backend/domain/core/entities"
	"techtree-backend/domain/core/valueobjects"
	"techtree-backend/pkg/errors"
)

// TechTreeValidator validates a raw dataset before it becomes an aggregate.
// It reports every problem it finds rather than stopping at the first.
type TechTreeValidator struct {
	config *config.DomainConfig
}

// NewTechTreeValidator creates a validator with the given rules
func NewTechTreeValidator(cfg *config.DomainConfig) *TechTreeValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &TechTreeValidator{config: cfg}
}

// EdgeSpec is the raw form of an edge.
type EdgeSpec struct {
	Source string
	Target string
}

// Validate builds entities from specs and checks cross-references.
func (v *TechTreeValidator) Validate(nodeSpecs []entities.NodeSpec, edgeSpecs []EdgeSpec) ([]*entities.Node, []*entities.Edge, error) {
	verrs := errors.NewValidationErrors()

	if len(nodeSpecs) > v.config.MaxNodes {
		verrs.Addf("nodes", "dataset has %d nodes, limit is %d", len(nodeSpecs), v.config.MaxNodes)
	}
	if len(edgeSpecs) > v.config.MaxEdges {
		verrs.Addf("edges", "dataset has %d edges, limit is %d", len(edgeSpecs), v.config.MaxEdges)
	}

	nodes := make([]*entities.Node, 0, len(nodeSpecs))
	seen := make(map[valueobjects.NodeID]struct{}, len(nodeSpecs))
	for i, spec := range nodeSpecs {
		node, err := entities.NewNode(spec)
		if err != nil {
			verrs.Add(fmt.Sprintf("nodes[%d]", i), messageOf(err))
			continue
		}
		if _, dup := seen[node.ID()]; dup {
			verrs.Addf(fmt.Sprintf("nodes[%d]", i), "duplicate node id %q", node.ID())
			continue
		}
		seen[node.ID()] = struct{}{}
		nodes = append(nodes, node)
	}

	edges := make([]*entities.Edge, 0, len(edgeSpecs))
	edgeIDs := make(map[string]struct{}, len(edgeSpecs))
	for i, spec := range edgeSpecs {
		field := fmt.Sprintf("edges[%d]", i)
		edge, err := entities.NewEdge(spec.Source, spec.Target)
		if err != nil {
			verrs.Add(field, messageOf(err))
			continue
		}
		if _, ok := seen[edge.Source()]; !ok {
			verrs.Addf(field, "unknown source node %q", edge.Source())
			continue
		}
		if _, ok := seen[edge.Target()]; !ok {
			verrs.Addf(field, "unknown target node %q", edge.Target())
			continue
		}
		if !v.config.AllowSelfConnections && edge.Source().Equals(edge.Target()) {
			verrs.Addf(field, "self connection on %q", edge.Source())
			continue
		}
		if _, dup := edgeIDs[edge.ID()]; dup {
			verrs.Addf(field, "duplicate edge %q", edge.ID())
			continue
		}
		edgeIDs[edge.ID()] = struct{}{}
		edges = append(edges, edge)
	}

	if verrs.HasErrors() {
		return nil, nil, verrs.AsAppError()
	}
	return nodes, edges, nil
}

func messageOf(err error) string {
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
