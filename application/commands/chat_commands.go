package commands

import (
	pkgerrors "techtree-backend/pkg/errors"
)

// ClearChatCommand deletes a session's transcript and scroll offset
type ClearChatCommand struct {
	SessionID string
}

// Validate validates the command
func (c ClearChatCommand) Validate() error {
	if c.SessionID == "" {
		return pkgerrors.NewValidationError("session ID is required")
	}
	return nil
}

// SaveScrollCommand records the transcript scroll offset
type SaveScrollCommand struct {
	SessionID string
	Offset    int
}

// Validate validates the command
func (c SaveScrollCommand) Validate() error {
	if c.SessionID == "" {
		return pkgerrors.NewValidationError("session ID is required")
	}
	if c.Offset < 0 {
		return pkgerrors.NewValidationError("offset must be non-negative")
	}
	return nil
}

// ReloadDatasetCommand re-reads the tech tree from its origin
type ReloadDatasetCommand struct{}

// Validate validates the command
func (c ReloadDatasetCommand) Validate() error {
	return nil
}
