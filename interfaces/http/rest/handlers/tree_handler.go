package handlers

import (
	"net/http"

	"techtree-backend/application/queries"
	querybus "techtree-backend/application/queries/bus"
	"techtree-backend/pkg/common"
	pkgerrors "techtree-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TreeHandler serves the dataset itself
type TreeHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *TreeHandler {
	return &TreeHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// GetTree handles GET /tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetTreeQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	tree := result.(*queries.GetTreeResult)
	common.RespondWithMeta(w, http.StatusOK, tree, meta(r, tree.Revision, nil))
}

// GetNode handles GET /nodes/{nodeID}
func (h *TreeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{NodeID: nodeID})
	if err != nil {
		h.logger.Debug("Node lookup failed", zap.String("nodeID", nodeID), zap.Error(err))
		h.errors.Handle(w, r, err)
		return
	}

	node := result.(*queries.GetNodeResult)
	common.RespondWithMeta(w, http.StatusOK, node, meta(r, node.Revision, nil))
}

// ListGroupings handles GET /groupings
func (h *TreeHandler) ListGroupings(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListGroupingsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondWithMeta(w, http.StatusOK, result, meta(r, 0, nil))
}
