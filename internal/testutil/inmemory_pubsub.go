package testutil

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ivesbwas/bwas/internal/pubsub"
)

// InMemoryPubSub keeps every published message per topic. Subscribers get
// the backlog first, then live messages, until their context is done.
type InMemoryPubSub struct {
	mu          sync.RWMutex
	topics      map[string][]*message.Message
	subscribers map[string][]chan *message.Message
	publishErr  error
	closed      bool
}

var _ pubsub.PubSub = (*InMemoryPubSub)(nil)

func NewInMemoryPubSub() *InMemoryPubSub {
	return &InMemoryPubSub{
		topics:      make(map[string][]*message.Message),
		subscribers: make(map[string][]chan *message.Message),
	}
}

func (ps *InMemoryPubSub) Publish(ctx context.Context, topic string, msg *message.Message) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.publishErr != nil {
		return ps.publishErr
	}

	ps.topics[topic] = append(ps.topics[topic], msg)
	for _, ch := range ps.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			// slow subscriber, dropped
		}
	}
	return nil
}

func (ps *InMemoryPubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	backlog := append([]*message.Message(nil), ps.topics[topic]...)
	ch := make(chan *message.Message, len(backlog)+100)
	for _, msg := range backlog {
		ch <- msg
	}
	if ps.closed {
		close(ch)
		return ch, nil
	}
	ps.subscribers[topic] = append(ps.subscribers[topic], ch)
	return ch, nil
}

// Close ends every subscription. Published messages stay readable.
func (ps *InMemoryPubSub) Close() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.closed {
		return nil
	}
	ps.closed = true
	for _, subs := range ps.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	ps.subscribers = make(map[string][]chan *message.Message)
	return nil
}

// GetMessages returns all messages published to a topic
func (ps *InMemoryPubSub) GetMessages(topic string) []*message.Message {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return append([]*message.Message(nil), ps.topics[topic]...)
}

// FailPublish makes every following Publish return err
func (ps *InMemoryPubSub) FailPublish(err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.publishErr = err
}

// ClearMessages drops the stored messages
func (ps *InMemoryPubSub) ClearMessages() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.topics = make(map[string][]*message.Message)
}
