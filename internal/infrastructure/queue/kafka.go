// Package queue publishes domain events to Kafka.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event is the envelope written as the message value.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	logger.Info("Kafka publisher configured",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	value, err := encodeEvent(eventType, data, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, eventType, key string, _ interface{}) error {
	logger.Debug("Event dropped, no broker configured",
		zap.String("event_type", eventType),
		zap.String("key", key),
	)
	return nil
}

func (NoopPublisher) Close() error { return nil }

func encodeEvent(eventType string, data interface{}, at time.Time) ([]byte, error) {
	value, err := json.Marshal(Event{Type: eventType, OccurredAt: at.UTC(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", eventType, err)
	}
	return value, nil
}
