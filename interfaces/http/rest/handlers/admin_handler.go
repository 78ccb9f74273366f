package handlers

import (
	"net/http"

	"techtree-backend/application/commands"
	"techtree-backend/application/commands/bus"
	"techtree-backend/application/ports"
	"techtree-backend/pkg/common"
	pkgerrors "techtree-backend/pkg/errors"
)

// AdminHandler exposes dataset maintenance
type AdminHandler struct {
	commandBus *bus.CommandBus
	source     ports.TechTreeSource
	errors     *pkgerrors.ErrorHandler
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(commandBus *bus.CommandBus, source ports.TechTreeSource, errors *pkgerrors.ErrorHandler) *AdminHandler {
	return &AdminHandler{
		commandBus: commandBus,
		source:     source,
		errors:     errors,
	}
}

// ReloadResponse reports the snapshot active after a reload.
type ReloadResponse struct {
	Revision uint64 `json:"revision"`
	Source   string `json:"source"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
}

// Reload handles POST /admin/reload
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.commandBus.Send(r.Context(), commands.ReloadDatasetCommand{}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	tree := h.source.Current()
	resp := ReloadResponse{
		Revision: tree.Revision(),
		Source:   tree.Source(),
		Nodes:    len(tree.Nodes()),
		Edges:    len(tree.Edges()),
	}
	common.RespondWithMeta(w, http.StatusOK, resp, meta(r, resp.Revision, nil))
}
