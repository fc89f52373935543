package events

import (
	"context"
	"sync"

	"github.com/polkiloo/pocha/internal/domain/model"
)

const subscriptionBuffer = 64

type memorySubscription struct {
	ch   chan model.OrderEvent
	done <-chan struct{}
}

// MemoryBroker delivers events inside one process.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[*memorySubscription]struct{}
	closed bool
}

// NewMemoryBroker creates an in-process broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[*memorySubscription]struct{})}
}

// Publish waits until every live subscriber accepted the event or ctx ends.
func (b *MemoryBroker) Publish(ctx context.Context, event model.OrderEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	for sub := range b.subs {
		select {
		case sub.ch <- event:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan model.OrderEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	sub := &memorySubscription{ch: make(chan model.OrderEvent, subscriptionBuffer), done: ctx.Done()}
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub.ch)
		}
	}()
	return sub.ch, nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
	return nil
}
