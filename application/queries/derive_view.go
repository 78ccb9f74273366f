package queries

import (
	"fmt"

	"techtree-backend/application/ports"
	"techtree-backend/application/services"
	pkgerrors "techtree-backend/pkg/errors"
)

// DeriveViewQuery asks for the positioned subgraph of a view.
type DeriveViewQuery struct {
	View      services.ViewState
	Algorithm string
}

// Validate validates the DeriveViewQuery
func (q DeriveViewQuery) Validate() error {
	if _, ok := ports.ParseLayoutAlgorithm(q.Algorithm); !ok {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown layout algorithm %q", q.Algorithm))
	}
	return q.View.Validate()
}

// CacheKey identifies equivalent views.
func (q DeriveViewQuery) CacheKey() string {
	v := q.View.Normalized()
	return fmt.Sprintf("g=%s|f=%s|c=%t|s=%q|a=%s", v.Grouping, v.FocusNodeID, v.OnlyConnected, v.Search, q.Algorithm)
}
