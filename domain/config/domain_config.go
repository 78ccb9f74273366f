package config

import (
	"techtree-backend/domain/core/valueobjects"
)

// DomainConfig holds the presentation and dataset rules of the tech tree
type DomainConfig struct {
	// Node box
	NodeWidth  float64
	NodeHeight float64

	// Layered layout spacing
	LayerSpacing float64
	NodeSpacing  float64

	// Decoration
	CategoryColors       map[valueobjects.Category]string
	DefaultBorderColor   string
	BorderWidth          int
	FocusBorderWidth     int
	FocusRing            string
	FocusFontWeight      string
	DefaultFontWeight    string
	EdgeStroke           string
	EdgeStrokeWidth      int
	ArrowMarkerSize      int
	SourceHandlePosition string
	TargetHandlePosition string

	// Dataset rules
	MaxNodes             int
	MaxEdges             int
	AllowSelfConnections bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		NodeWidth:  150,
		NodeHeight: 50,

		LayerSpacing: 100,
		NodeSpacing:  20,

		CategoryColors: map[valueobjects.Category]string{
			valueobjects.CategoryReactorConcept:     "oklch(62.3% 0.214 259.815)",
			valueobjects.CategoryMilestone:          "oklch(72.3% 0.219 149.579)",
			valueobjects.CategoryEnablingTechnology: "oklch(0.637 0.237 25.331)",
		},
		DefaultBorderColor:   "#9ca3af",
		BorderWidth:          1,
		FocusBorderWidth:     3,
		FocusRing:            "0 0 0 2px #f97316",
		FocusFontWeight:      "bold",
		DefaultFontWeight:    "normal",
		EdgeStroke:           "#374151",
		EdgeStrokeWidth:      1,
		ArrowMarkerSize:      20,
		SourceHandlePosition: "right",
		TargetHandlePosition: "left",

		MaxNodes:             5000,
		MaxEdges:             20000,
		AllowSelfConnections: false,
	}
}

// NodeSize returns the fixed node box
func (c *DomainConfig) NodeSize() valueobjects.Size {
	return valueobjects.Size{Width: c.NodeWidth, Height: c.NodeHeight}
}

// ColorFor returns the border color for a category
func (c *DomainConfig) ColorFor(category valueobjects.Category) string {
	if color, ok := c.CategoryColors[category]; ok {
		return color
	}
	return c.DefaultBorderColor
}
