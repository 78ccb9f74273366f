package handlers

import (
	"context"

	"go.uber.org/zap"

	"techtree-backend/application/ports"
	"techtree-backend/application/queries"
	"techtree-backend/application/services"
)

// DeriveViewHandler handles view derivation queries
type DeriveViewHandler struct {
	deriver *services.ViewDeriver
	logger  *zap.Logger
}

// NewDeriveViewHandler creates a new derive view handler
func NewDeriveViewHandler(deriver *services.ViewDeriver, logger *zap.Logger) *DeriveViewHandler {
	return &DeriveViewHandler{
		deriver: deriver,
		logger:  logger,
	}
}

// Handle executes the derive view query
func (h *DeriveViewHandler) Handle(ctx context.Context, query queries.DeriveViewQuery) (*services.DerivedView, error) {
	return h.deriver.Derive(ctx, query.View, ports.LayoutAlgorithm(query.Algorithm))
}
