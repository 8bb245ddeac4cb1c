// Package kafka publishes usage-event telemetry to the message broker.
package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/spaarke/workspace-engine/internal/application/events"
	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.CodeInternal, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes usage events.  Writes are bounded by WriteTimeout so
// telemetry can never stall a request beyond that.
type Producer struct {
	writer      WriterInterface
	topicPrefix string
	logger      logging.Logger
	closed      atomic.Bool
}

// NewProducer creates the producer.  Topic is resolved per message from the
// event type, prefixed with the configured namespace.
func NewProducer(cfg *config.KafkaConfig, logger logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Producer{
		writer:      writer,
		topicPrefix: strings.TrimSuffix(cfg.TopicPrefix, "."),
		logger:      logger.Named("kafka"),
	}
}

// NewProducerWithWriter wraps an existing writer (for testing).
func NewProducerWithWriter(writer WriterInterface, topicPrefix string, logger logging.Logger) *Producer {
	return &Producer{writer: writer, topicPrefix: strings.TrimSuffix(topicPrefix, "."), logger: logger}
}

// Publish sends one usage event.  The event type doubles as the topic name.
func (p *Producer) Publish(ctx context.Context, event events.UsageEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode usage event")
	}

	msg := kafka.Message{
		Topic: p.topic(event.Type),
		Key:   []byte(event.Identity),
		Value: payload,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to publish usage event")
	}
	return nil
}

// topic joins the configured namespace with the dotted event type.  An
// empty namespace publishes to the event type alone.
func (p *Producer) topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
