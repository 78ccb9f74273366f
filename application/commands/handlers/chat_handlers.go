package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"techtree-backend/application/commands"
	"techtree-backend/application/commands/bus"
	"techtree-backend/application/ports"
	"techtree-backend/application/services"
)

// ClearChatHandler handles ClearChatCommand
type ClearChatHandler struct {
	chat *services.ChatService
}

// NewClearChatHandler creates a new clear chat handler
func NewClearChatHandler(chat *services.ChatService) *ClearChatHandler {
	return &ClearChatHandler{chat: chat}
}

// Handle executes the command
func (h *ClearChatHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.ClearChatCommand)
	if !ok {
		return fmt.Errorf("invalid command type %T", cmd)
	}
	return h.chat.Clear(ctx, c.SessionID)
}

// SaveScrollHandler handles SaveScrollCommand
type SaveScrollHandler struct {
	chat *services.ChatService
}

// NewSaveScrollHandler creates a new save scroll handler
func NewSaveScrollHandler(chat *services.ChatService) *SaveScrollHandler {
	return &SaveScrollHandler{chat: chat}
}

// Handle executes the command
func (h *SaveScrollHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.SaveScrollCommand)
	if !ok {
		return fmt.Errorf("invalid command type %T", cmd)
	}
	return h.chat.SaveScroll(ctx, c.SessionID, c.Offset)
}

// ReloadDatasetHandler handles ReloadDatasetCommand
type ReloadDatasetHandler struct {
	reloader ports.TreeReloader
	logger   *zap.Logger
}

// NewReloadDatasetHandler creates a new reload handler
func NewReloadDatasetHandler(reloader ports.TreeReloader, logger *zap.Logger) *ReloadDatasetHandler {
	return &ReloadDatasetHandler{reloader: reloader, logger: logger}
}

// Handle executes the command
func (h *ReloadDatasetHandler) Handle(ctx context.Context, cmd bus.Command) error {
	if _, ok := cmd.(commands.ReloadDatasetCommand); !ok {
		return fmt.Errorf("invalid command type %T", cmd)
	}
	tree, err := h.reloader.Reload(ctx)
	if err != nil {
		return err
	}
	h.logger.Info("Dataset reloaded on request",
		zap.Uint64("revision", tree.Revision()),
		zap.Int("nodes", len(tree.Nodes())),
	)
	return nil
}

// Register wires the chat and dataset command handlers into the bus
func Register(b *bus.CommandBus, chat *services.ChatService, reloader ports.TreeReloader, logger *zap.Logger) error {
	if err := b.Register(commands.ClearChatCommand{}, NewClearChatHandler(chat)); err != nil {
		return err
	}
	if err := b.Register(commands.SaveScrollCommand{}, NewSaveScrollHandler(chat)); err != nil {
		return err
	}
	if reloader != nil {
		if err := b.Register(commands.ReloadDatasetCommand{}, NewReloadDatasetHandler(reloader, logger)); err != nil {
			return err
		}
	}
	return nil
}
