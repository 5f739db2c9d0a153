// Package event reacts to product change events published by the catalog
// owner.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/rilsonjoas/alternativas-br-sub001/pkg/kafka"
)

// Product change event types, which are also the topics they travel on.
var (
	TopicProductCreated = pkgkafka.Topic("product", "created")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
	TopicProductDeleted = pkgkafka.Topic("product", "deleted")
)

// Topics lists every topic the consumer handles.
func Topics() []string {
	return []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}
}

// ProductChanged is the payload shared by all product events.
type ProductChanged struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Invalidator drops cached catalog data.
type Invalidator interface {
	Invalidate()
}

// Consumer invalidates the entity snapshot whenever a product changes, so
// the next search refetches from the source.
type Consumer struct {
	snapshot Invalidator
	logger   *slog.Logger
}

// NewConsumer creates a product event consumer.
func NewConsumer(snapshot Invalidator, logger *slog.Logger) *Consumer {
	return &Consumer{snapshot: snapshot, logger: logger}
}

// Handle processes one event. Invalidation is idempotent, so redelivered
// events are harmless.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated, TopicProductDeleted:
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}

	var data ProductChanged
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}

	c.snapshot.Invalidate()
	c.logger.InfoContext(ctx, "entity snapshot invalidated",
		slog.String("event_type", event.EventType),
		slog.String("product_id", data.ID),
	)
	return nil
}
