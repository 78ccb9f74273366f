package valueobjects

import (
	"errors"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds identifiers accepted from datasets and requests.
const MaxNodeIDLength = 128

// NodeID is a value object representing a unique node identifier.
// Tech-tree ids are human-authored slugs, not UUIDs.
type NodeID struct {
	value string
}

// NewNodeID validates and wraps an identifier.
func NewNodeID(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return NodeID{}, errors.New("node ID is too long")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return NodeID{}, errors.New("node ID cannot contain whitespace")
	}
	return NodeID{value: id}, nil
}

// MustNodeID panics on an invalid id. Intended for tests and literals.
func MustNodeID(id string) NodeID {
	n, err := NewNodeID(id)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalText implements encoding.TextMarshaler
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *NodeID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*id = NodeID{}
		return nil
	}
	parsed, err := NewNodeID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
