package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"convertflow/internal/config"
	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher sends item events to a JetStream subject
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

var _ port.EventPublisher = (*Publisher)(nil)

// NewNATSPublisher connects and makes sure the stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, "convertflow-publisher", logger)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

// Publish sends event as JSON and waits for the stream ack
func (p *Publisher) Publish(ctx context.Context, event domain.ItemEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal item event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.config.Subject, data, jetstream.WithMsgID(msgID(event))); err != nil {
		return fmt.Errorf("failed to publish item event: %w", err)
	}
	return nil
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// msgID lets JetStream drop duplicates of the same snapshot
func msgID(event domain.ItemEvent) string {
	return fmt.Sprintf("%s-%s-%.2f-%d", event.ItemID, event.Status, event.Progress, event.OccurredAt.UnixNano())
}
