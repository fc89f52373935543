package test

import (
	"context"
	"sync"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// PublisherStub records published order events.
type PublisherStub struct {
	mu     sync.Mutex
	Err    error
	events []model.OrderEvent
}

// Publish stores event unless Err is set.
func (p *PublisherStub) Publish(_ context.Context, event model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *PublisherStub) Events() []model.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.OrderEvent(nil), p.events...)
}

// MetricsStub counts order metric calls.
type MetricsStub struct {
	mu          sync.Mutex
	Created     int
	Transitions []string
}

// OrderCreated increments Created.
func (m *MetricsStub) OrderCreated() {
	m.mu.Lock()
	m.Created++
	m.mu.Unlock()
}

// StatusChanged records "from->to".
func (m *MetricsStub) StatusChanged(from, to string) {
	m.mu.Lock()
	m.Transitions = append(m.Transitions, from+"->"+to)
	m.mu.Unlock()
}
