package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"techtree-backend/application/queries"
	querybus "techtree-backend/application/queries/bus"
	"techtree-backend/application/services"
	"techtree-backend/pkg/common"
	pkgerrors "techtree-backend/pkg/errors"

	"go.uber.org/zap"
)

// SnapshotRenderer draws a derived view as an image.
type SnapshotRenderer func(w io.Writer, view *services.DerivedView) error

// ViewHandler derives positioned views of the tree
type ViewHandler struct {
	queryBus         *querybus.QueryBus
	render           SnapshotRenderer
	defaultAlgorithm string
	errors           *pkgerrors.ErrorHandler
	logger           *zap.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(
	queryBus *querybus.QueryBus,
	render SnapshotRenderer,
	defaultAlgorithm string,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ViewHandler {
	return &ViewHandler{
		queryBus:         queryBus,
		render:           render,
		defaultAlgorithm: defaultAlgorithm,
		errors:           errors,
		logger:           logger,
	}
}

// DeriveViewRequest is a ViewState plus request bookkeeping. Seq is echoed
// back so the client can drop responses to superseded requests.
type DeriveViewRequest struct {
	services.ViewState
	Seq       *int64 `json:"seq,omitempty"`
	Algorithm string `json:"algorithm,omitempty" validate:"omitempty,oneof=layered force"`
}

// Derive handles POST /view
func (h *ViewHandler) Derive(w http.ResponseWriter, r *http.Request) {
	req, view, err := h.derive(w, r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondWithMeta(w, http.StatusOK, view, meta(r, view.Revision, req.Seq))
}

// Snapshot handles POST /view/svg
func (h *ViewHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.render == nil {
		h.errors.HandleStatus(w, r, http.StatusNotFound, "snapshot rendering is not available")
		return
	}

	req, view, err := h.derive(w, r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.render(&buf, view); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewInternalError("render snapshot").WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Tree-Revision", strconv.FormatUint(view.Revision, 10))
	if req.Seq != nil {
		w.Header().Set("X-Request-Seq", strconv.FormatInt(*req.Seq, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Failed to write snapshot", zap.Error(err))
	}
}

func (h *ViewHandler) derive(w http.ResponseWriter, r *http.Request) (*DeriveViewRequest, *services.DerivedView, error) {
	var req DeriveViewRequest
	if err := decodeBody(w, r, &req); err != nil {
		return nil, nil, err
	}

	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = h.defaultAlgorithm
	}

	result, err := h.queryBus.Ask(r.Context(), queries.DeriveViewQuery{
		View:      req.ViewState,
		Algorithm: algorithm,
	})
	if err != nil {
		return nil, nil, err
	}
	return &req, result.(*services.DerivedView), nil
}
