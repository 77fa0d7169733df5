package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/placement-test-service/internal/events"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventConfig holds configuration for submission event publishing
type EventConfig struct {
	Enabled      bool
	Publisher    string `validate:"oneof=kafka mock"` // kafka or mock
	KafkaBrokers string
	Topic        string `validate:"required"`

	// ConsumerGroup is used by the placement-events feed.
	ConsumerGroup string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	brokers := make([]string, 0)
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// CreateEventSubscriber creates the Kafka subscriber read by the events feed.
func (c *EventConfig) CreateEventSubscriber(logger *slog.Logger) (message.Subscriber, error) {
	return events.NewKafkaSubscriber(events.SubscriberConfig{
		KafkaBrokers:  c.GetKafkaBrokers(),
		ConsumerGroup: c.ConsumerGroup,
		Logger:        logger,
	})
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.Topic)

		publisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.Topic,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		return publisher, nil
	default:
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	}
}
