package entities

import (
	"strings"

	"techtree-backend/domain/core/valueobjects"
	pkgerrors "techtree-backend/pkg/errors"
)

// Node is a single technology, milestone or reactor concept in the tree.
// Nodes are immutable reference data once constructed.
type Node struct {
	id                  valueobjects.NodeID
	label               string
	category            valueobjects.Category
	description         string
	detailedDescription string
	trl                 valueobjects.TRL
}

// NodeSpec carries the raw fields used to build a Node.
type NodeSpec struct {
	ID                  string
	Label               string
	Category            string
	Description         string
	DetailedDescription string
	TRL                 int
}

// NewNode creates a node with full field validation
func NewNode(spec NodeSpec) (*Node, error) {
	id, err := valueobjects.NewNodeID(spec.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	label := strings.TrimSpace(spec.Label)
	if label == "" {
		return nil, pkgerrors.NewValidationError("node " + spec.ID + ": label cannot be empty")
	}

	category, err := valueobjects.ParseCategory(spec.Category)
	if err != nil {
		return nil, pkgerrors.NewValidationError("node " + spec.ID + ": " + err.Error())
	}

	trl, err := valueobjects.NewTRL(spec.TRL)
	if err != nil {
		return nil, pkgerrors.NewValidationError("node " + spec.ID + ": " + err.Error())
	}

	return &Node{
		id:                  id,
		label:               label,
		category:            category,
		description:         strings.TrimSpace(spec.Description),
		detailedDescription: strings.TrimSpace(spec.DetailedDescription),
		trl:                 trl,
	}, nil
}

// ID returns the node's identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

func (n *Node) Label() string {
	return n.label
}

func (n *Node) Category() valueobjects.Category {
	return n.category
}

func (n *Node) Description() string {
	return n.description
}

func (n *Node) DetailedDescription() string {
	return n.detailedDescription
}

func (n *Node) TRL() valueobjects.TRL {
	return n.trl
}

// BestDescription prefers the detailed text and falls back to the short one.
// Empty means neither was supplied.
func (n *Node) BestDescription() string {
	if n.detailedDescription != "" {
		return n.detailedDescription
	}
	return n.description
}

// Spec returns the node's fields in their raw form.
func (n *Node) Spec() NodeSpec {
	return NodeSpec{
		ID:                  n.id.String(),
		Label:               n.label,
		Category:            n.category.String(),
		Description:         n.description,
		DetailedDescription: n.detailedDescription,
		TRL:                 int(n.trl),
	}
}
