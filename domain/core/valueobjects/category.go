package valueobjects

import (
	"fmt"
	"strings"
)

// Category is the closed set of node kinds in the tech tree.
type Category string

const (
	CategoryReactorConcept     Category = "ReactorConcept"
	CategoryMilestone          Category = "Milestone"
	CategoryEnablingTechnology Category = "EnablingTechnology"
)

// AllCategories returns the categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryReactorConcept,
		CategoryMilestone,
		CategoryEnablingTechnology,
	}
}

// ParseCategory accepts the canonical name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, err := ParseCategory(string(c))
	return err == nil && string(c) == strings.TrimSpace(string(c))
}

func (c Category) String() string {
	return string(c)
}
