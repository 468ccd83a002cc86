package kafka

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/pubsub"
)

// PubSub publishes and consumes through Kafka. The subscriber is created on
// the first Subscribe so publish-only processes never join the consumer group.
type PubSub struct {
	mu         sync.Mutex
	publisher  message.Publisher
	subscriber message.Subscriber
	config     *config.Configuration
	logger     *logger.Logger
}

// NewPubSub creates a new kafka-based pubsub
func NewPubSub(
	cfg *config.Configuration,
	logger *logger.Logger,
) (pubsub.PubSub, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               cfg.Kafka.Brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: GetSaramaConfig(cfg),
		},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return nil, err
	}

	logger.Infow("created kafka publisher", "brokers", cfg.Kafka.Brokers)

	return &PubSub{
		publisher: publisher,
		config:    cfg,
		logger:    logger,
	}, nil
}

func (p *PubSub) Publish(ctx context.Context, topic string, msg *message.Message) error {
	msg.SetContext(ctx)
	return p.publisher.Publish(topic, msg)
}

func (p *PubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subscriber == nil {
		subscriber, err := kafka.NewSubscriber(
			kafka.SubscriberConfig{
				Brokers:               p.config.Kafka.Brokers,
				ConsumerGroup:         p.config.Kafka.ConsumerGroup,
				Unmarshaler:           kafka.DefaultMarshaler{},
				OverwriteSaramaConfig: GetSaramaConfig(p.config),
			},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			return nil, err
		}
		p.subscriber = subscriber
	}
	return p.subscriber.Subscribe(ctx, topic)
}

func (p *PubSub) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.publisher.Close(); err != nil {
		return err
	}
	if p.subscriber != nil {
		return p.subscriber.Close()
	}
	return nil
}
