// Package producers publishes domain events for downstream consumers
// (welcome mail, CRM sync). Publishing is fire-and-forget: a broker outage
// never fails the request that triggered the event.
package producers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kodbank/kodbank-api/internal/logger"
)

// UserRegisteredEvent is the payload published after a successful
// registration.
type UserRegisteredEvent struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserEventProducer writes user events to a Kafka topic.
type UserEventProducer struct {
	writer *kafka.Writer
}

// NewUserEventProducer creates a producer for the given brokers and topic.
func NewUserEventProducer(brokers []string, topic string) *UserEventProducer {
	return &UserEventProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
	}
}

// NotifyRegistered publishes a user.registered event keyed by username.
func (p *UserEventProducer) NotifyRegistered(ctx context.Context, username, email string) {
	event := UserRegisteredEvent{
		Username:     username,
		Email:        email,
		RegisteredAt: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal user event", "err", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(username),
		Value: value,
	})
	if err != nil {
		logger.Log.Errorw("failed to publish user event", "username", username, "err", err)
	}
}

// Close flushes and closes the underlying writer.
func (p *UserEventProducer) Close() error {
	return p.writer.Close()
}
