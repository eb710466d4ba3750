package kafka

import (
	"context"
	"log/slog"

	"github.com/IBM/sarama"
)

// MessageHandler processes one consumed record. Returning an error leaves
// the offset unmarked, so the record comes back on the next rebalance or
// restart; returning nil acknowledges it.
type MessageHandler interface {
	Handle(ctx context.Context, msg *sarama.ConsumerMessage) error
}

// Consumer runs a consumer group over the booking event topics and feeds
// each record to the handler. The notification pipeline is its only user
// today.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	logger  *slog.Logger
}

func NewConsumer(brokers []string, groupID string, cfg *sarama.Config, handler MessageHandler, logger *slog.Logger) (*Consumer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
		cfg.ClientID = clientID + "-" + groupID
	}
	cfg.Version = sarama.V2_5_0_0
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: g, handler: handler, logger: logger}, nil
}

func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		if err := c.group.Consume(ctx, topics, groupSession{handler: c.handler, logger: c.logger}); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupSession struct {
	handler MessageHandler
	logger  *slog.Logger
}

func (s groupSession) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (s groupSession) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (s groupSession) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := s.handler.Handle(sess.Context(), message); err != nil {
			// Leave the offset unmarked; the record is redelivered.
			if s.logger != nil {
				s.logger.Warn("event handling failed",
					"topic", message.Topic,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err)
			}
			continue
		}
		sess.MarkMessage(message, "")
	}
	return nil
}
