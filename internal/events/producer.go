package events

import (
	"context"
	"encoding/json"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/akyravish/secure-user-service/internal/config"
	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

// Publisher emits user lifecycle events. Services depend on this interface
// so tests can observe publication without a broker.
type Publisher interface {
	PublishUserCreated(ctx context.Context, userID string) error
	PublishUserUpdated(ctx context.Context, userID string, changes map[string]any) error
}

// messageWriter is the subset of kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events to Kafka. Publication failures are wrapped as
// KAFKA_ERROR; there is no retry or buffering at this layer.
type Producer struct {
	writer messageWriter
	source string
	logger *zap.Logger
}

// NewProducer builds a Kafka-backed producer.
func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer, source: cfg.ClientID, logger: logger}
}

// PublishUserCreated emits a user.created event.
func (p *Producer) PublishUserCreated(ctx context.Context, userID string) error {
	event := UserCreatedEvent{
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Source:    p.source,
	}
	return p.send(ctx, TopicUserCreated, userID, event)
}

// PublishUserUpdated emits a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, userID string, changes map[string]any) error {
	event := UserUpdatedEvent{
		UserID:    userID,
		Changes:   changes,
		Timestamp: time.Now().UTC(),
		Source:    p.source,
	}
	return p.send(ctx, TopicUserUpdated, userID, event)
}

func (p *Producer) send(ctx context.Context, topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewKafkaError("failed to encode event", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event", zap.String("topic", topic), zap.Error(err))
		return apperrors.NewKafkaError("failed to publish event to "+topic, err)
	}
	return nil
}

// Close flushes and releases the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
