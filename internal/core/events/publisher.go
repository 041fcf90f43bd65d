package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"qc-dashboard/internal/core/config"
	"qc-dashboard/internal/core/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event is the envelope written to the message bus.
type Event struct {
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an Event envelope.
func NewEvent(eventType, key string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Key: key, OccurredAt: time.Now().UTC(), Payload: data}, nil
}

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic, keyed by Event.Key.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher returns a Kafka publisher when brokers are configured, and a no-op otherwise.
func NewPublisher(cfg config.KafkaConfig) Publisher {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		logger.Get().Info("Kafka brokers not configured, events disabled")
		return NopPublisher{}
	}

	logger.Get().Info("Kafka publisher configured",
		zap.Strings("brokers", brokers),
		zap.String("topic", cfg.WorkOrderTopic),
	)

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  cfg.WorkOrderTopic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
		topic: cfg.WorkOrderTopic,
	}
}

// Publish writes all events in one batch.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(e.Key),
			Value:   value,
			Time:    e.OccurredAt,
			Headers: []kafka.Header{{Key: "type", Value: []byte(e.Type)}},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d events to %s: %w", len(msgs), p.topic, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, ...Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
