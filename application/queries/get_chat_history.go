package queries

import (
	pkgerrors "techtree-backend/pkg/errors"
)

// GetChatHistoryQuery loads a session transcript
type GetChatHistoryQuery struct {
	SessionID string
}

// Validate validates the GetChatHistoryQuery
func (q GetChatHistoryQuery) Validate() error {
	if q.SessionID == "" {
		return pkgerrors.NewValidationError("session ID is required")
	}
	return nil
}
