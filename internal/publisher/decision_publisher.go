package publisher

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/pubsub"
)

// DecisionPublisher announces committed authorization decisions
type DecisionPublisher interface {
	Publish(ctx context.Context, event *authorization.DecisionEvent) error
}

type decisionPublisher struct {
	pubsub pubsub.Publisher
	topic  string
	logger *logger.Logger
}

// NewDecisionPublisher returns a publisher on events.topic, or a no-op
// publisher when events are disabled
func NewDecisionPublisher(cfg *config.Configuration, ps pubsub.PubSub, logger *logger.Logger) DecisionPublisher {
	if !cfg.Events.Enabled || ps == nil {
		return &noopPublisher{}
	}
	return &decisionPublisher{
		pubsub: ps,
		topic:  cfg.Events.Topic,
		logger: logger,
	}
}

func (p *decisionPublisher) Publish(ctx context.Context, event *authorization.DecisionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal decision event").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_name", event.EventName)
	msg.Metadata.Set("transaction_id", event.TransactionID)

	p.logger.Debugw("publishing decision event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"transaction_id", event.TransactionID,
		"topic", p.topic)

	if err := p.pubsub.Publish(ctx, p.topic, msg); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish decision event").
			WithReportableDetails(map[string]any{
				"event_name": event.EventName,
			}).
			Mark(ierr.ErrSystem)
	}
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, *authorization.DecisionEvent) error {
	return nil
}
