package queries

import (
	"strings"

	pkgerrors "techtree-backend/pkg/errors"
)

// GetNodeQuery represents a query to get a single node
type GetNodeQuery struct {
	NodeID string
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if strings.TrimSpace(q.NodeID) == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	return nil
}

// NodeDTO is a node as exposed over the API
type NodeDTO struct {
	ID                  string `json:"id"`
	Label               string `json:"label"`
	Category            string `json:"category"`
	Description         string `json:"description,omitempty"`
	DetailedDescription string `json:"detailedDescription,omitempty"`
	TRL                 *int   `json:"trl,omitempty"`
}

// EdgeDTO is an edge as exposed over the API
type EdgeDTO struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// GetNodeResult represents the result of getting a node
type GetNodeResult struct {
	Node         NodeDTO   `json:"node"`
	Color        string    `json:"color"`
	Predecessors []NodeDTO `json:"predecessors"`
	Successors   []NodeDTO `json:"successors"`
	Revision     uint64    `json:"revision"`
}
