package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

type capturingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error { return nil }

func TestPublishUserCreated(t *testing.T) {
	writer := &capturingWriter{}
	producer := &Producer{writer: writer, source: "user-service", logger: zap.NewNop()}

	err := producer.PublishUserCreated(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, TopicUserCreated, msg.Topic)
	assert.Equal(t, "user-1", string(msg.Key))

	var event UserCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, "user-service", event.Source)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)
}

func TestPublishUserUpdated(t *testing.T) {
	writer := &capturingWriter{}
	producer := &Producer{writer: writer, source: "user-service", logger: zap.NewNop()}

	changes := map[string]any{"name": "Alice"}
	err := producer.PublishUserUpdated(context.Background(), "user-2", changes)
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, TopicUserUpdated, msg.Topic)
	assert.Equal(t, "user-2", string(msg.Key))

	var event UserUpdatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "user-2", event.UserID)
	assert.Equal(t, "Alice", event.Changes["name"])
}

func TestPublishWrapsWriterFailure(t *testing.T) {
	writer := &capturingWriter{err: errors.New("broker unreachable")}
	producer := &Producer{writer: writer, source: "user-service", logger: zap.NewNop()}

	err := producer.PublishUserCreated(context.Background(), "user-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeKafkaError, appErr.Code)
	assert.ErrorContains(t, err, "broker unreachable")
}
