package queue

import (
	"context"
	"sync"
)

// Message is one published queue message, used by the memory publisher.
type Message struct {
	QueueName   string
	Payload     []byte
	OrderingKey string
	DedupKey    string
}

// MemoryPublisher is an in-memory Publisher for tests.
// It deduplicates messages by the deduplication key, as a real queue would.
type MemoryPublisher struct {
	lock     sync.Mutex
	messages []Message
	seen     map[string]bool
	sendErr  error
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{seen: make(map[string]bool)}
}

func (p *MemoryPublisher) Send(_ context.Context, queueName string, payload []byte, orderingKey, dedupKey string) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.sendErr != nil {
		return p.sendErr
	}
	if p.seen[dedupKey] {
		return nil
	}
	p.seen[dedupKey] = true
	p.messages = append(p.messages, Message{QueueName: queueName, Payload: payload, OrderingKey: orderingKey, DedupKey: dedupKey})
	return nil
}

// Messages returns a copy of all accepted messages.
func (p *MemoryPublisher) Messages() []Message {
	p.lock.Lock()
	defer p.lock.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// FailWith sets the error returned by the following Send calls, nil resets it.
func (p *MemoryPublisher) FailWith(err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.sendErr = err
}
