package testutil

import (
	"context"
	"sync"

	"github.com/ivesbwas/bwas/internal/domain/authorization"
)

// InMemoryDecisionPublisher records published decision events
type InMemoryDecisionPublisher struct {
	mu     sync.RWMutex
	events []*authorization.DecisionEvent
	err    error
}

// NewInMemoryDecisionPublisher creates a new recording publisher
func NewInMemoryDecisionPublisher() *InMemoryDecisionPublisher {
	return &InMemoryDecisionPublisher{
		events: make([]*authorization.DecisionEvent, 0),
	}
}

// Publish records the event, or returns the configured failure
func (p *InMemoryDecisionPublisher) Publish(ctx context.Context, event *authorization.DecisionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

// Fail makes every following Publish return err
func (p *InMemoryDecisionPublisher) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// GetEvents returns all published events
func (p *InMemoryDecisionPublisher) GetEvents() []*authorization.DecisionEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	events := make([]*authorization.DecisionEvent, len(p.events))
	copy(events, p.events)
	return events
}

// Clear removes all published events
func (p *InMemoryDecisionPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = make([]*authorization.DecisionEvent, 0)
	p.err = nil
}
