package handlers

import (
	"net/http"

	"techtree-backend/application/commands"
	"techtree-backend/application/commands/bus"
	"techtree-backend/application/queries"
	querybus "techtree-backend/application/queries/bus"
	"techtree-backend/application/services"
	"techtree-backend/pkg/common"
	pkgerrors "techtree-backend/pkg/errors"

	"go.uber.org/zap"
)

// ChatHandler handles assistant chat requests
type ChatHandler struct {
	chat       *services.ChatService
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	chat *services.ChatService,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		chat:       chat,
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errors,
		logger:     logger,
	}
}

// ChatStatusResponse reports whether the assistant can answer.
type ChatStatusResponse struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model,omitempty"`
}

// SubmitChatRequest is one question asked with the current view as context.
type SubmitChatRequest struct {
	Message string             `json:"message" validate:"notblank,max=4000"`
	View    services.ViewState `json:"view"`
	Seq     *int64             `json:"seq,omitempty"`
}

// SaveScrollRequest records the transcript scroll position.
type SaveScrollRequest struct {
	Offset *int `json:"offset" validate:"required,min=0"`
}

// Status handles GET /chat/status
func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	enabled, model := h.chat.Status()
	common.RespondWithMeta(w, http.StatusOK, ChatStatusResponse{Enabled: enabled, Model: model}, meta(r, 0, nil))
}

// History handles GET /chat/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetChatHistoryQuery{SessionID: session})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondWithMeta(w, http.StatusOK, result, meta(r, 0, nil))
}

// Submit handles POST /chat. A failed model call still returns the recorded
// turn, whose assistant message is the generic apology, with the error status.
func (h *ChatHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req SubmitChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	turn, err := h.chat.Submit(r.Context(), session, req.Message, req.View)
	if err != nil && turn == nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err != nil {
		status := http.StatusBadGateway
		if appErr := pkgerrors.GetAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
			status = appErr.HTTPStatus
		}
		userID, _ := common.GetUserID(r.Context())
		h.logger.Warn("Assistant call failed",
			zap.String("session_id", session),
			zap.String("user_id", userID),
			zap.String("request_id", common.ExtractRequestID(r)),
			zap.Error(err),
		)
		common.RespondWithMeta(w, status, turn, meta(r, 0, req.Seq))
		return
	}

	common.RespondWithMeta(w, http.StatusOK, turn, meta(r, 0, req.Seq))
}

// SaveScroll handles PUT /chat/scroll
func (h *ChatHandler) SaveScroll(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req SaveScrollRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.SaveScrollCommand{SessionID: session, Offset: *req.Offset}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /chat/history
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.ClearChatCommand{SessionID: session}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
