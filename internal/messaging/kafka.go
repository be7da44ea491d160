package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
)

const defaultWriteTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes keyed messages to a single topic.
type KafkaPublisher struct {
	writer       messageWriter
	topic        string
	writeTimeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	log.Debugf("kafka publisher set up, brokers %v, topic %s", brokers, topic)
	return newKafkaPublisher(writer, topic)
}

func newKafkaPublisher(writer messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer:       writer,
		topic:        topic,
		writeTimeout: defaultWriteTimeout,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "messaging.kafka.publish")
	span.SetAttributes(
		attribute.String("messaging.destination", p.topic),
		attribute.String("messaging.key", key),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("write message to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every message. Used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, key string, _ []byte) error {
	log.Tracef("kafka disabled, dropping message [%s]", key)
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
