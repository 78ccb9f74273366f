package services

import (
	"regexp"
	"strings"

	"techtree-backend/domain/core/aggregates"
	"techtree-backend/domain/core/entities"
	"techtree-backend/domain/core/valueobjects"
	pkgerrors "techtree-backend/pkg/errors"
	"techtree-backend/pkg/utils"
)

// ViewState is the client's current view of the tree, sent with every request.
type ViewState struct {
	Grouping      string `json:"grouping" validate:"omitempty,grouping"`
	FocusNodeID   string `json:"focusNodeId,omitempty" validate:"omitempty,max=128"`
	OnlyConnected bool   `json:"onlyConnected"`
	Search        string `json:"search,omitempty" validate:"max=256"`
}

// Validate checks struct tags.
func (s ViewState) Validate() error {
	return utils.ValidateStruct(s)
}

// Normalized canonicalises grouping and trims whitespace so equal views
// compare equal.
func (s ViewState) Normalized() ViewState {
	out := ViewState{
		Grouping:      string(valueobjects.GroupingNone),
		FocusNodeID:   strings.TrimSpace(s.FocusNodeID),
		OnlyConnected: s.OnlyConnected,
		Search:        strings.TrimSpace(s.Search),
	}
	if g, err := valueobjects.ParseGroupingMode(s.Grouping); err == nil {
		out.Grouping = string(g)
	}
	return out
}

// Selection is the visible subgraph, in dataset order.
type Selection struct {
	Nodes []*entities.Node
	Edges []*entities.Edge
	// Focus is nil when no node is focused or the focused node is
	// outside the search universe.
	Focus *entities.Node
}

// Select computes the visible subgraph for a view. It is pure over the tree.
func Select(tree *aggregates.TechTree, state ViewState) (Selection, error) {
	if err := state.Validate(); err != nil {
		return Selection{}, err
	}
	state = state.Normalized()
	grouping, _ := valueobjects.ParseGroupingMode(state.Grouping)
	groupCategory, grouped := grouping.Category()

	universe := searchUniverse(tree, state.Search)

	included := make(map[valueobjects.NodeID]bool)
	var edgeKeep func(e *entities.Edge) bool
	var sel Selection

	switch {
	case state.FocusNodeID != "":
		focusID, err := valueobjects.NewNodeID(state.FocusNodeID)
		if err != nil {
			return Selection{}, pkgerrors.NewValidationError("focusNodeId: " + err.Error())
		}
		focus, ok := tree.Node(focusID)
		if !ok {
			return Selection{}, pkgerrors.NewNotFoundError("node " + state.FocusNodeID)
		}

		if universe[focusID] {
			included[focusID] = true
			sel.Focus = focus
		}
		for _, e := range tree.IncidentEdges(focusID) {
			if other := e.Other(focusID); universe[other] {
				included[other] = true
			}
		}
		if !state.OnlyConnected && grouped {
			for _, n := range tree.Nodes() {
				if n.Category() == groupCategory && universe[n.ID()] {
					included[n.ID()] = true
				}
			}
		}

		edgeKeep = func(e *entities.Edge) bool {
			if e.Touches(focusID) {
				return true
			}
			if state.OnlyConnected {
				return false
			}
			src, _ := tree.Node(e.Source())
			dst, _ := tree.Node(e.Target())
			return src.Category() == dst.Category()
		}

	case grouped:
		for _, n := range tree.Nodes() {
			if n.Category() == groupCategory && universe[n.ID()] {
				included[n.ID()] = true
			}
		}
		edgeKeep = func(*entities.Edge) bool { return true }

	default:
		for id := range universe {
			included[id] = true
		}
		edgeKeep = func(*entities.Edge) bool { return true }
	}

	for _, n := range tree.Nodes() {
		if included[n.ID()] {
			sel.Nodes = append(sel.Nodes, n)
		}
	}
	for _, e := range tree.Edges() {
		if included[e.Source()] && included[e.Target()] && edgeKeep(e) {
			sel.Edges = append(sel.Edges, e)
		}
	}
	return sel, nil
}

// searchUniverse returns the ids whose label matches term. An empty term
// matches every node; an invalid pattern degrades to substring matching.
func searchUniverse(tree *aggregates.TechTree, term string) map[valueobjects.NodeID]bool {
	universe := make(map[valueobjects.NodeID]bool, len(tree.Nodes()))
	match := labelMatcher(term)
	for _, n := range tree.Nodes() {
		if match(n.Label()) {
			universe[n.ID()] = true
		}
	}
	return universe
}

func labelMatcher(term string) func(string) bool {
	if term == "" {
		return func(string) bool { return true }
	}
	if re, err := regexp.Compile("(?i)" + term); err == nil {
		return re.MatchString
	}
	lowered := strings.ToLower(term)
	return func(label string) bool {
		return strings.Contains(strings.ToLower(label), lowered)
	}
}
