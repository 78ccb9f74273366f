package valueobjects

import (
	"fmt"
	"strings"
)

// GroupingMode filters the visible node set to one category, or to nothing
// when it is GroupingNone.
type GroupingMode string

// GroupingNone disables category grouping.
const GroupingNone GroupingMode = "None"

// AllGroupingModes lists None followed by every category.
func AllGroupingModes() []GroupingMode {
	modes := []GroupingMode{GroupingNone}
	for _, c := range AllCategories() {
		modes = append(modes, GroupingMode(c))
	}
	return modes
}

// ParseGroupingMode treats the empty string as GroupingNone.
func ParseGroupingMode(s string) (GroupingMode, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(GroupingNone)) {
		return GroupingNone, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("unknown grouping mode %q", s)
	}
	return GroupingMode(c), nil
}

// Category returns the grouped category, or false for GroupingNone.
func (g GroupingMode) Category() (Category, bool) {
	if g == "" || g == GroupingNone {
		return "", false
	}
	return Category(g), true
}

// DisplayLabel is the text shown in the grouping selector.
func (g GroupingMode) DisplayLabel() string {
	if c, ok := g.Category(); ok {
		return string(c)
	}
	return "No Grouping"
}
