package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/akyravish/secure-user-service/internal/config"
)

// Handler processes one decoded event. Handlers must be idempotent: the
// consumer gives at-least-once delivery and no ordering guarantee.
type Handler func(ctx context.Context, payload []byte) error

// Consumer reads user lifecycle topics in a consumer group and dispatches to
// registered handlers. A failed handler leaves the message uncommitted so
// the broker redelivers it.
type Consumer struct {
	reader   *kafka.Reader
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewConsumer builds a group consumer subscribed to the user topics.
func NewConsumer(cfg config.KafkaConfig, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.ConsumerGroup,
		GroupTopics: []string{TopicUserCreated, TopicUserUpdated},
	})
	c := &Consumer{
		reader:   reader,
		handlers: make(map[string]Handler),
		logger:   logger,
	}
	c.handlers[TopicUserCreated] = c.handleUserCreated
	c.handlers[TopicUserUpdated] = c.handleUserUpdated
	return c
}

// Run consumes until the context is cancelled or the reader is closed.
func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			continue
		}

		handler, ok := c.handlers[msg.Topic]
		if !ok {
			c.logger.Warn("unknown topic received", zap.String("topic", msg.Topic))
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := handler(ctx, msg.Value); err != nil {
			c.logger.Error("failed to process event",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			// skip the commit so the broker redelivers
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit offset", zap.Error(err))
		}
	}
}

func (c *Consumer) handleUserCreated(_ context.Context, payload []byte) error {
	var event UserCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	c.logger.Info("user created event processed",
		zap.String("user_id", event.UserID),
		zap.String("source", event.Source))
	return nil
}

func (c *Consumer) handleUserUpdated(_ context.Context, payload []byte) error {
	var event UserUpdatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	c.logger.Info("user updated event processed",
		zap.String("user_id", event.UserID),
		zap.Int("changed_fields", len(event.Changes)))
	return nil
}

// Close stops the reader; Run returns after Close.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
