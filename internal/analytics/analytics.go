// Package analytics emits fire-and-forget events about catalog usage.
package analytics

import (
	"context"
	"log/slog"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	pkgkafka "github.com/rilsonjoas/alternativas-br-sub001/pkg/kafka"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/logger"
)

// EventSearchPerformed is the event type of a committed search.
const EventSearchPerformed = "catalog.search.performed"

// DefaultTopic is where search events are published.
var DefaultTopic = pkgkafka.Topic("catalog", "search")

// SearchPerformed is the payload of EventSearchPerformed.
type SearchPerformed struct {
	Owner       string                `json:"owner,omitempty"`
	Query       string                `json:"query"`
	Criteria    domain.FilterCriteria `json:"criteria"`
	Sort        domain.SortSpec       `json:"sort"`
	ResultCount int                   `json:"result_count"`
	Degraded    bool                  `json:"degraded,omitempty"`
}

// Sink receives analytics events. Implementations must not block the
// caller on delivery and never fail the search that produced the event.
type Sink interface {
	SearchPerformed(ctx context.Context, ev SearchPerformed)
}

// Nop discards every event.
type Nop struct{}

// SearchPerformed implements Sink.
func (Nop) SearchPerformed(context.Context, SearchPerformed) {}

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// KafkaSink publishes events through a Kafka producer.
type KafkaSink struct {
	producer publisher
	topic    string
	source   string
	logger   *slog.Logger
}

// NewKafkaSink creates a sink publishing to topic. An empty topic uses
// DefaultTopic.
func NewKafkaSink(producer *pkgkafka.Producer, topic, source string, logger *slog.Logger) *KafkaSink {
	return newKafkaSink(producer, topic, source, logger)
}

func newKafkaSink(p publisher, topic, source string, logger *slog.Logger) *KafkaSink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaSink{producer: p, topic: topic, source: source, logger: logger}
}

// SearchPerformed publishes ev. Failures are logged and dropped.
func (s *KafkaSink) SearchPerformed(ctx context.Context, ev SearchPerformed) {
	aggregate := ev.Owner
	if aggregate == "" {
		aggregate = "anonymous"
	}

	event, err := pkgkafka.NewEvent(EventSearchPerformed, aggregate, "search", s.source, ev)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to build analytics event", slog.String("error", err.Error()))
		return
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	// Delivery must outlive the request.
	if err := s.producer.Publish(context.WithoutCancel(ctx), s.topic, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish analytics event",
			slog.String("topic", s.topic),
			slog.String("error", err.Error()),
		)
	}
}
