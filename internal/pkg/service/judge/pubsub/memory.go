package pubsub

import (
	"context"
	"sync"
)

// MemoryBroker is an in-process Broker for tests and the local development mode.
// Messages are delivered synchronously in the publish call.
type MemoryBroker struct {
	lock     sync.RWMutex
	nextID   int
	channels map[string]map[int]Handler
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{channels: make(map[string]map[int]Handler)}
}

func (b *MemoryBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	b.lock.RLock()
	handlers := make([]Handler, 0, len(b.channels[channel]))
	for _, handler := range b.channels[channel] {
		handlers = append(handlers, handler)
	}
	b.lock.RUnlock()

	for _, handler := range handlers {
		handler(ctx, payload)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context, channel string, handler Handler) (Subscription, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.channels[channel] == nil {
		b.channels[channel] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.channels[channel][id] = handler
	return &memorySubscription{broker: b, channel: channel, id: id}, nil
}

// SubscriberCount returns the number of active subscriptions of the channel.
func (b *MemoryBroker) SubscriberCount(channel string) int {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return len(b.channels[channel])
}

type memorySubscription struct {
	broker  *MemoryBroker
	channel string
	id      int
	once    sync.Once
}

func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() {
		s.broker.lock.Lock()
		defer s.broker.lock.Unlock()
		delete(s.broker.channels[s.channel], s.id)
	})
}
