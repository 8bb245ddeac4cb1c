package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaarke/workspace-engine/internal/application/events"
	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, "sprk.", logging.NewNopLogger())

	event := events.BriefingGenerated("user-1", true, time.Now())
	require.NoError(t, producer.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "sprk.workspace.briefing.generated", msg.Topic)
	assert.Equal(t, "user-1", string(msg.Key))

	var decoded events.UsageEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, events.TypeBriefingGenerated, decoded.Type)
	assert.Equal(t, "true", decoded.Attributes["aiEnhanced"])
}

func TestPublish_TopicWithDefaultPrefix(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, cfg.Kafka.TopicPrefix, logging.NewNopLogger())

	require.NoError(t, producer.Publish(context.Background(), events.BriefingGenerated("user-1", false, time.Now())))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, "sprk.workspace.briefing.generated", writer.messages[0].Topic)
}

func TestPublish_EmptyPrefixUsesEventType(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, "", logging.NewNopLogger())

	require.NoError(t, producer.Publish(context.Background(), events.ScoresComputed("user-1", 2, time.Now())))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, events.TypeScoresComputed, writer.messages[0].Topic)
}

func TestPublish_AfterCloseFails(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, "", logging.NewNopLogger())

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)

	err := producer.Publish(context.Background(), events.ScoresComputed("user-1", 5, time.Now()))
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestClose_Idempotent(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, "", logging.NewNopLogger())

	require.NoError(t, producer.Close())
	require.NoError(t, producer.Close())
}
