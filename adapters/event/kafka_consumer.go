package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

var consumerTracer = otel.Tracer("honors-hub/event/consumer")

var ErrUndecodable = errors.New("undecodable event payload")

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Handler func(ctx context.Context, msg kafka.Message) error

// JSONHandler decodes the message value into T before calling fn.
func JSONHandler[T any](fn func(context.Context, T) error) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload T
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		return fn(ctx, payload)
	}
}

func NewKafkaReader(cfg config.Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}

type Consumer struct {
	reader  MessageReader
	handler Handler
	logger  logger.Logger
}

func NewConsumer(reader MessageReader, handler Handler, log logger.Logger) *Consumer {
	return &Consumer{reader: reader, handler: handler, logger: log}
}

// Run processes messages until ctx is cancelled. A message is committed after it
// is handled or when it cannot be decoded. A failed message is logged and skipped:
// commits are offset based, so the next commit also covers it and it is only
// redelivered if the process restarts first.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		l := c.logger.With(zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))
		l.Debug("Received message")

		err = c.handle(ctx, msg)
		switch {
		case errors.Is(err, ErrUndecodable):
			l.Error("Failed to unmarshal event, skipping", err)
		case err != nil:
			l.Error("Failed to process event", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.Error("Failed to commit message", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	ctx, span := consumerTracer.Start(ctx, "consume "+msg.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer span.End()

	err := c.handler(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
