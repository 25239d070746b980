// Package kafka publishes encoded BUFR messages to a broker, for setups
// where downstream exchange (GTS injection, archiving) consumes from a
// topic rather than from files.
package kafka

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/promice/aws2bufr/internal/domain"
)

// Writer produces one Kafka message per BUFR message. Implements
// pipeline.Sink. The value is the raw BUFR payload; station, template and
// timing metadata travel as key and headers so consumers can route without
// decoding.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a producer for the given brokers and topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Write publishes one encoded message.
func (w *Writer) Write(ctx context.Context, msg domain.EncodedMessage) error {
	return w.writer.WriteMessages(ctx, buildMessage(msg))
}

// buildMessage maps an encoded BUFR message onto the Kafka wire shape.
func buildMessage(msg domain.EncodedMessage) kafkago.Message {
	return kafkago.Message{
		Key:   []byte(msg.StationID),
		Value: msg.Data,
		Headers: []kafkago.Header{
			{Key: "template_id", Value: []byte(strconv.Itoa(msg.TemplateID))},
			{Key: "observed_at", Value: []byte(msg.ObservedAt.UTC().Format(time.RFC3339))},
			{Key: "encoded_at", Value: []byte(msg.EncodedAt.UTC().Format(time.RFC3339))},
		},
	}
}

// Close flushes and closes the underlying producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}
