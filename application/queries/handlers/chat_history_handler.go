package handlers

import (
	"context"

	"techtree-backend/application/queries"
	"techtree-backend/application/services"
)

// ChatHistoryHandler handles transcript queries
type ChatHistoryHandler struct {
	chat *services.ChatService
}

// NewChatHistoryHandler creates a new chat history handler
func NewChatHistoryHandler(chat *services.ChatService) *ChatHistoryHandler {
	return &ChatHistoryHandler{chat: chat}
}

// Handle executes the chat history query
func (h *ChatHistoryHandler) Handle(ctx context.Context, query queries.GetChatHistoryQuery) (*services.Transcript, error) {
	return h.chat.History(ctx, query.SessionID)
}
