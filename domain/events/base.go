package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event type names
const (
	EventTypeChatTurnCompleted = "chat.turn_completed"
	EventTypeChatCleared       = "chat.cleared"
	EventTypeTreeReloaded      = "techtree.reloaded"
)

// ChatTurnCompleted is raised after an assistant reply (or the fallback
// apology) has been appended to a session transcript.
type ChatTurnCompleted struct {
	BaseEvent
	SessionID   string `json:"session_id"`
	MessageID   string `json:"message_id"`
	Succeeded   bool   `json:"succeeded"`
	Model       string `json:"model"`
	FocusNodeID string `json:"focus_node_id,omitempty"`
	NodeCount   int    `json:"node_count"`
	EdgeCount   int    `json:"edge_count"`
	DurationMs  int64  `json:"duration_ms"`
}

// NewChatTurnCompleted creates a ChatTurnCompleted event
func NewChatTurnCompleted(sessionID, messageID string, succeeded bool, timestamp time.Time) ChatTurnCompleted {
	return ChatTurnCompleted{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   EventTypeChatTurnCompleted,
			Timestamp:   timestamp,
			Version:     1,
		},
		SessionID: sessionID,
		MessageID: messageID,
		Succeeded: succeeded,
	}
}

// ChatCleared is raised when a session transcript is deleted
type ChatCleared struct {
	BaseEvent
	SessionID string `json:"session_id"`
}

// NewChatCleared creates a ChatCleared event
func NewChatCleared(sessionID string, timestamp time.Time) ChatCleared {
	return ChatCleared{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   EventTypeChatCleared,
			Timestamp:   timestamp,
			Version:     1,
		},
		SessionID: sessionID,
	}
}

// TreeReloaded is raised when a new dataset snapshot replaces the active one
type TreeReloaded struct {
	BaseEvent
	Revision  uint64 `json:"revision"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
	Source    string `json:"source"`
}

// NewTreeReloaded creates a TreeReloaded event
func NewTreeReloaded(revision uint64, nodes, edges int, source string, timestamp time.Time) TreeReloaded {
	return TreeReloaded{
		BaseEvent: BaseEvent{
			AggregateID: "techtree",
			EventType:   EventTypeTreeReloaded,
			Timestamp:   timestamp,
			Version:     int(revision),
		},
		Revision:  revision,
		NodeCount: nodes,
		EdgeCount: edges,
		Source:    source,
	}
}
