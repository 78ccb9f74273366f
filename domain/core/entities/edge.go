package entities

import (
	"techtree-backend/domain/core/valueobjects"
	pkgerrors "techtree-backend/pkg/errors"
)

// Edge is a directed dependency between two nodes.
type Edge struct {
	source valueobjects.NodeID
	target valueobjects.NodeID
}

// NewEdge validates both endpoint ids
func NewEdge(source, target string) (*Edge, error) {
	s, err := valueobjects.NewNodeID(source)
	if err != nil {
		return nil, pkgerrors.NewValidationError("edge source: " + err.Error())
	}
	t, err := valueobjects.NewNodeID(target)
	if err != nil {
		return nil, pkgerrors.NewValidationError("edge target: " + err.Error())
	}
	return &Edge{source: s, target: t}, nil
}

// EdgeID derives the identifier used by clients: "<source>-<target>".
func EdgeID(source, target valueobjects.NodeID) string {
	return source.String() + "-" + target.String()
}

func (e *Edge) ID() string {
	return EdgeID(e.source, e.target)
}

func (e *Edge) Source() valueobjects.NodeID {
	return e.source
}

func (e *Edge) Target() valueobjects.NodeID {
	return e.target
}

// Touches reports whether id is either endpoint.
func (e *Edge) Touches(id valueobjects.NodeID) bool {
	return e.source.Equals(id) || e.target.Equals(id)
}

// Other returns the endpoint opposite id.
func (e *Edge) Other(id valueobjects.NodeID) valueobjects.NodeID {
	if e.source.Equals(id) {
		return e.target
	}
	return e.source
}
