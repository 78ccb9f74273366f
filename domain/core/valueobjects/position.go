package valueobjects

// Position is a point in layout space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a node box.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TopLeft converts an anchor at the box centre into the box's top-left corner.
func (p Position) TopLeft(s Size) Position {
	return Position{X: p.X - s.Width/2, Y: p.Y - s.Height/2}
}
