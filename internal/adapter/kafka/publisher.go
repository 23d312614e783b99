// Package kafka publishes search events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/community-health-finder/internal/config"
	"github.com/couchcryptid/community-health-finder/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces search events to a Kafka topic.
// It implements finder.EventPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates an asynchronous producer for the configured events
// topic. Delivery failures are logged, never returned to the caller.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	p := &Publisher{logger: logger}
	p.writer = &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaEventsTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion:             p.completion,
	}
	return p
}

// Publish queues event for delivery. With an async writer the only errors
// returned are serialization failures and a closed writer.
func (p *Publisher) Publish(ctx context.Context, event domain.SearchEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) completion(messages []kafkago.Message, err error) {
	if err == nil {
		return
	}
	p.logger.Warn("search event delivery failed",
		"topic", p.writer.Topic,
		"messages", len(messages),
		"error", err,
	)
}

// serializeToMessage marshals a SearchEvent into a Kafka message keyed by
// event id.
func serializeToMessage(event domain.SearchEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize search event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "zip", Value: []byte(event.Zip)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}, nil
}
