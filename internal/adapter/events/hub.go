package events

import (
	"sync"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// SubscriberGauge tracks connected stream subscribers.
type SubscriberGauge interface {
	SubscriberAdded()
	SubscriberRemoved()
}

// Hub fans events out to the stream connections of this instance. A
// subscriber whose buffer is full is disconnected; it reconnects with its
// last seen id and catches up from storage.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan model.OrderEvent]struct{}
	buffer int
	gauge  SubscriberGauge
}

// NewHub creates a hub with per-subscriber buffer of the given size.
func NewHub(buffer int, gauge SubscriberGauge) *Hub {
	if buffer <= 0 {
		buffer = subscriptionBuffer
	}
	return &Hub{subs: make(map[chan model.OrderEvent]struct{}), buffer: buffer, gauge: gauge}
}

// Subscribe registers a subscriber. The returned cancel func is idempotent.
func (h *Hub) Subscribe() (<-chan model.OrderEvent, func()) {
	ch := make(chan model.OrderEvent, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	if h.gauge != nil {
		h.gauge.SubscriberAdded()
	}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.dropLocked(ch)
	}
}

// Broadcast delivers event to every subscriber without blocking.
func (h *Hub) Broadcast(event model.OrderEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.dropLocked(ch)
		}
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		h.dropLocked(ch)
	}
}

func (h *Hub) dropLocked(ch chan model.OrderEvent) {
	if _, ok := h.subs[ch]; !ok {
		return
	}
	delete(h.subs, ch)
	close(ch)
	if h.gauge != nil {
		h.gauge.SubscriberRemoved()
	}
}
