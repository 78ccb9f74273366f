package queries

// GetTreeQuery asks for the whole active dataset
type GetTreeQuery struct{}

// Validate validates the GetTreeQuery
func (q GetTreeQuery) Validate() error {
	return nil
}

// CategoryDTO describes one category and its palette entry
type CategoryDTO struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// GetTreeResult is the full dataset with presentation metadata
type GetTreeResult struct {
	Revision   uint64        `json:"revision"`
	Source     string        `json:"source"`
	LoadedAt   string        `json:"loadedAt"`
	Nodes      []NodeDTO     `json:"nodes"`
	Edges      []EdgeDTO     `json:"edges"`
	Categories []CategoryDTO `json:"categories"`
}

// ListGroupingsQuery asks for the grouping selector options
type ListGroupingsQuery struct{}

// Validate validates the ListGroupingsQuery
func (q ListGroupingsQuery) Validate() error {
	return nil
}

// GroupingOption is one entry of the grouping selector
type GroupingOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
