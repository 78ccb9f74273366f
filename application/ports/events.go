package ports

import (
	"context"

	"techtree-backend/domain/events"
)

// EventPublisher ships domain events to an external bus.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...events.DomainEvent) error { return nil }
