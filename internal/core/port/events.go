package port

import (
	"context"

	"convertflow/internal/core/domain"
)

// EventPublisher is an interface to define an item event publisher (nats, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ItemEvent) error
	Close() error
}

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}
