package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

var ErrMalformedEvent = errors.New("malformed submission event")

// SubscriberConfig holds configuration for the Kafka event subscriber
type SubscriberConfig struct {
	KafkaBrokers  []string
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewKafkaSubscriber creates a Watermill subscriber on the Kafka brokers
func NewKafkaSubscriber(config SubscriberConfig) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               config.KafkaBrokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
		ConsumerGroup:         config.ConsumerGroup,
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return subscriber, nil
}

// SubmissionEventHandler processes one decoded submission.recorded event.
type SubmissionEventHandler func(ctx context.Context, event *SubmissionEvent, data SubmissionRecorded) error

// Consumer reads submission events from a topic. Undecodable messages are
// acked and dropped; handler failures are nacked for redelivery.
type Consumer struct {
	subscriber message.Subscriber
	topic      string
	logger     *slog.Logger
}

func NewConsumer(subscriber message.Subscriber, topic string, logger *slog.Logger) *Consumer {
	return &Consumer{
		subscriber: subscriber,
		topic:      topic,
		logger:     logger,
	}
}

// Run blocks until ctx is done or the subscription closes.
func (c *Consumer) Run(ctx context.Context, handle SubmissionEventHandler) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.topic, err)
	}

	c.logger.Info("Consuming submission events", "topic", c.topic)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.process(ctx, msg, handle)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg *message.Message, handle SubmissionEventHandler) {
	event, data, err := DecodeSubmissionEvent(msg.Payload)
	if err != nil {
		c.logger.Warn("Dropping undecodable event",
			"message_id", msg.UUID,
			"error", err)
		msg.Ack()
		return
	}

	if event.Type != EventSubmissionRecorded {
		c.logger.Debug("Ignoring event", "event_id", event.ID, "event_type", event.Type)
		msg.Ack()
		return
	}

	if err := handle(ctx, event, data); err != nil {
		c.logger.Error("Failed to handle submission event",
			"event_id", event.ID,
			"error", err)
		msg.Nack()
		return
	}
	msg.Ack()
}

// DecodeSubmissionEvent parses a published envelope and its payload.
func DecodeSubmissionEvent(payload []byte) (*SubmissionEvent, SubmissionRecorded, error) {
	var envelope struct {
		SubmissionEvent
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, SubmissionRecorded{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	var data SubmissionRecorded
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, SubmissionRecorded{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
	}

	event := envelope.SubmissionEvent
	event.Data = data
	return &event, data, nil
}
