// Package events announces issued and revoked status list tokens.
//
// Publishing is best-effort: a failed publish is logged and never changes
// the outcome of the flow that produced it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"statuslist/internal/platform/kafka/producer"
)

// Event types.
const (
	TypeIssued  = "status_list.issued"
	TypeRevoked = "status_list.revoked"
)

type Event struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Index      int    `json:"idx"`
	URI        string `json:"uri"`
	OccurredAt int64  `json:"occurredAt"` // epoch milliseconds
}

// NewEvent stamps a fresh event ID.
func NewEvent(eventType string, index int, uri string, occurredAtMillis int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Index:      index,
		URI:        uri,
		OccurredAt: occurredAtMillis,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// AsyncProducer is the part of *producer.Producer the publisher needs.
type AsyncProducer interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaPublisher keys records by URI so all events for one token land on
// the same partition in order.
type KafkaPublisher struct {
	producer AsyncProducer
	topic    string
	logger   *slog.Logger
}

func NewKafkaPublisher(p AsyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{producer: p, topic: topic, logger: logger}
}

func (k *KafkaPublisher) Publish(ctx context.Context, e Event) {
	value, err := json.Marshal(e)
	if err != nil {
		k.logger.ErrorContext(ctx, "encode status event", "type", e.Type, "error", err)
		return
	}
	err = k.producer.ProduceAsync(&producer.Message{
		Topic: k.topic,
		Key:   []byte(e.URI),
		Value: value,
		Headers: map[string]string{
			"event_type": e.Type,
			"event_id":   e.ID,
		},
	})
	if err != nil {
		k.logger.WarnContext(ctx, "status event dropped", "type", e.Type, "uri", e.URI, "error", err)
	}
}

// NoopPublisher discards events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NoopPublisher{}
)
