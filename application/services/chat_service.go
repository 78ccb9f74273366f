package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"techtree-backend/application/ports"
	"techtree-backend/domain/core/entities"
	"techtree-backend/domain/events"
	pkgerrors "techtree-backend/pkg/errors"
	"techtree-backend/pkg/observability"
	"techtree-backend/pkg/sanitize"
)

// Transcript cache keys.
const (
	HistoryKey = "tech-tree-chat-history"
	ScrollKey  = "tech-tree-chat-scroll"
)

// MaxMessageLength bounds a single user question.
const MaxMessageLength = 4000

// RenderedMessage is a transcript entry plus its browser-safe HTML.
// HTML is only set for assistant messages.
type RenderedMessage struct {
	entities.ChatMessage
	HTML string `json:"html,omitempty"`
}

// Transcript is a session's history as returned to clients.
type Transcript struct {
	SessionID    string            `json:"sessionId"`
	Messages     []RenderedMessage `json:"messages"`
	LastUpdated  int64             `json:"lastUpdated,omitempty"`
	ScrollOffset *int              `json:"scrollOffset,omitempty"`
}

// ChatTurn is the outcome of one submitted question.
type ChatTurn struct {
	User      RenderedMessage `json:"user"`
	Assistant RenderedMessage `json:"assistant"`
	Succeeded bool            `json:"succeeded"`
}

// ChatService keeps per-session transcripts and drives the assistant.
type ChatService struct {
	store     ports.KeyValueStore
	bridge    *AssistantBridge
	deriver   *ViewDeriver
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
	locks     *sessionLocks
	shared    ports.SessionLocker
	now       func() time.Time
}

// NewChatService creates a chat service
func NewChatService(
	store ports.KeyValueStore,
	bridge *AssistantBridge,
	deriver *ViewDeriver,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ChatService {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	return &ChatService{
		store:     store,
		bridge:    bridge,
		deriver:   deriver,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		locks:     newSessionLocks(),
		now:       time.Now,
	}
}

// WithSessionLocker adds a cross-process lock around transcript updates.
func (s *ChatService) WithSessionLocker(l ports.SessionLocker) *ChatService {
	s.shared = l
	return s
}

// Status reports whether chat is usable and with which model.
func (s *ChatService) Status() (bool, string) {
	return s.bridge.Enabled(), s.bridge.Model()
}

// History loads the transcript and scroll offset for a session.
// A corrupt stored transcript is treated as empty.
func (s *ChatService) History(ctx context.Context, sessionID string) (*Transcript, error) {
	history, err := s.loadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	t := &Transcript{
		SessionID:   sessionID,
		Messages:    render(history.Messages),
		LastUpdated: history.LastUpdated,
	}

	raw, err := s.store.Get(ctx, sessionID, ScrollKey)
	switch {
	case err == nil:
		if offset, perr := strconv.Atoi(strings.TrimSpace(raw)); perr == nil {
			t.ScrollOffset = &offset
		}
	case !errors.Is(err, ports.ErrKeyNotFound):
		return nil, pkgerrors.NewStorageError("load scroll offset", err)
	}
	return t, nil
}

// Submit appends the question, asks the assistant with the context of view
// and appends the reply. When the model call fails the generic apology is
// recorded instead and the model error is returned alongside the turn.
func (s *ChatService) Submit(ctx context.Context, sessionID, message string, view ViewState) (*ChatTurn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.NewValidationError("message is required")
	}
	if len(message) > MaxMessageLength {
		return nil, pkgerrors.NewValidationError("message is too long")
	}
	if !s.bridge.Enabled() {
		return nil, pkgerrors.NewConfigurationError("chat is disabled: generative model API key is not configured").WithCode("CHAT_DISABLED")
	}

	sel, _, err := s.deriver.Select(view)
	if err != nil {
		return nil, err
	}

	userMsg := entities.NewChatMessage(entities.RoleUser, message, s.now())
	if err := s.append(ctx, sessionID, userMsg); err != nil {
		return nil, err
	}

	start := s.now()
	answer, askErr := s.bridge.Ask(ctx, message, ContextFromSelection(sel))
	elapsed := s.now().Sub(start)

	content := answer
	status := observability.StatusSuccess
	if askErr != nil {
		content = pkgerrors.GenericFailureMessage
		status = observability.StatusFailure
	}
	assistantMsg := entities.NewChatMessage(entities.RoleAssistant, content, s.now())

	// The apology must be recorded even if the request was cancelled.
	saveCtx := context.WithoutCancel(ctx)
	if err := s.append(saveCtx, sessionID, assistantMsg); err != nil {
		return nil, err
	}
	s.metrics.RecordChatTurn(status, elapsed)

	evt := events.NewChatTurnCompleted(sessionID, assistantMsg.ID, askErr == nil, s.now().UTC())
	evt.Model = s.bridge.Model()
	evt.NodeCount = len(sel.Nodes)
	evt.EdgeCount = len(sel.Edges)
	evt.DurationMs = elapsed.Milliseconds()
	if sel.Focus != nil {
		evt.FocusNodeID = sel.Focus.ID().String()
	}
	if err := s.publisher.Publish(saveCtx, evt); err != nil {
		s.logger.Warn("Failed to publish chat event", zap.String("session_id", sessionID), zap.Error(err))
	}

	turn := &ChatTurn{
		User:      renderOne(userMsg),
		Assistant: renderOne(assistantMsg),
		Succeeded: askErr == nil,
	}
	return turn, askErr
}

// Clear deletes the transcript and the scroll offset.
func (s *ChatService) Clear(ctx context.Context, sessionID string) error {
	unlock, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.store.Delete(ctx, sessionID, HistoryKey, ScrollKey); err != nil {
		return pkgerrors.NewStorageError("clear chat history", err)
	}
	if err := s.publisher.Publish(ctx, events.NewChatCleared(sessionID, s.now().UTC())); err != nil {
		s.logger.Warn("Failed to publish chat event", zap.String("session_id", sessionID), zap.Error(err))
	}
	return nil
}

// SaveScroll records the last scroll offset.
func (s *ChatService) SaveScroll(ctx context.Context, sessionID string, offset int) error {
	if offset < 0 {
		return pkgerrors.NewValidationError("offset must be non-negative")
	}
	if err := s.store.Put(ctx, sessionID, ScrollKey, strconv.Itoa(offset)); err != nil {
		return pkgerrors.NewStorageError("save scroll offset", err)
	}
	return nil
}

func (s *ChatService) append(ctx context.Context, sessionID string, msg entities.ChatMessage) error {
	unlock, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	history, err := s.loadHistory(ctx, sessionID)
	if err != nil {
		return err
	}
	history.Append(msg)
	return s.saveHistory(ctx, sessionID, history)
}

func (s *ChatService) lockSession(ctx context.Context, sessionID string) (func(), error) {
	unlock := s.locks.lock(sessionID)
	if s.shared == nil {
		return unlock, nil
	}
	release, err := s.shared.Acquire(ctx, sessionID)
	if err != nil {
		unlock()
		return nil, pkgerrors.NewStorageError("lock chat session", err)
	}
	return func() {
		release()
		unlock()
	}, nil
}

func (s *ChatService) loadHistory(ctx context.Context, sessionID string) (*entities.ChatHistory, error) {
	raw, err := s.store.Get(ctx, sessionID, HistoryKey)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return &entities.ChatHistory{}, nil
	}
	if err != nil {
		return nil, pkgerrors.NewStorageError("load chat history", err)
	}

	var history entities.ChatHistory
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		s.logger.Warn("Discarding unreadable chat history", zap.String("session_id", sessionID), zap.Error(err))
		return &entities.ChatHistory{}, nil
	}
	return &history, nil
}

func (s *ChatService) saveHistory(ctx context.Context, sessionID string, history *entities.ChatHistory) error {
	if history.IsEmpty() {
		return nil
	}
	data, err := json.Marshal(history)
	if err != nil {
		return pkgerrors.NewInternalError("encode chat history").WithCause(err)
	}
	if err := s.store.Put(ctx, sessionID, HistoryKey, string(data)); err != nil {
		return pkgerrors.NewStorageError("save chat history", err)
	}
	return nil
}

func render(msgs []entities.ChatMessage) []RenderedMessage {
	out := make([]RenderedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, renderOne(m))
	}
	return out
}

func renderOne(m entities.ChatMessage) RenderedMessage {
	r := RenderedMessage{ChatMessage: m}
	if m.Role == entities.RoleAssistant {
		r.HTML = sanitize.AssistantHTML(m.Content)
	}
	return r
}

// sessionLocks hands out one mutex per session and forgets it when idle.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	sl, ok := l.locks[sessionID]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
