package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

const (
	TopicProposalEvents = "proposal.events"
	TopicAvatarEvents   = "avatar.events"
)

type KafkaProducerClient struct {
	ProposalEventsWriter *kafka.Writer
	AvatarEventsWriter   *kafka.Writer
	logger               logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	proposalWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicProposalEvents,
		Balancer: &kafka.Hash{},
	}

	avatarWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicAvatarEvents,
		Balancer: &kafka.Hash{},
	}

	log.Info("Initialize Kafka producers successfully", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		ProposalEventsWriter: proposalWriter,
		AvatarEventsWriter:   avatarWriter,
		logger:               log,
	}, nil
}

// Messages are keyed by aggregate id so one consumer sees a proposal's events in order.
func (c *KafkaProducerClient) PublishProposalEvent(ctx context.Context, payload ProposalEventPayload) error {
	return write(ctx, c.ProposalEventsWriter, payload.ProposalID, payload)
}

func (c *KafkaProducerClient) PublishAvatarEvent(ctx context.Context, payload AvatarEventPayload) error {
	return write(ctx, c.AvatarEventsWriter, payload.ProfileID, payload)
}

func write(ctx context.Context, w *kafka.Writer, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", w.Topic, err)
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: body}); err != nil {
		return fmt.Errorf("write event to %s: %w", w.Topic, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProposalEventsWriter != nil {
		c.ProposalEventsWriter.Close()
	}
	if c.AvatarEventsWriter != nil {
		c.AvatarEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka producers")
}

// LogPublisher stands in for Kafka when no brokers are configured.
type LogPublisher struct {
	logger logger.Logger
}

func NewLogPublisher(log logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log}
}

func (p *LogPublisher) PublishProposalEvent(_ context.Context, payload ProposalEventPayload) error {
	p.logger.Info("Proposal event (not published, no brokers)",
		zap.String("event_type", string(payload.EventType)),
		zap.String("proposal_id", payload.ProposalID),
		zap.String("to_status", payload.ToStatus))
	return nil
}

func (p *LogPublisher) PublishAvatarEvent(_ context.Context, payload AvatarEventPayload) error {
	p.logger.Info("Avatar event (not published, no brokers)",
		zap.String("profile_id", payload.ProfileID),
		zap.String("public_id", payload.PublicID))
	return nil
}
