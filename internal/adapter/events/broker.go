// Package events fans order events out across service instances.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/pkg/money"
)

// ErrClosed is returned by a broker that was already closed.
var ErrClosed = errors.New("broker closed")

// Broker publishes order events and delivers every published event to each subscription.
type Broker interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	// Subscribe returns a channel closed when ctx ends or the broker closes.
	Subscribe(ctx context.Context) (<-chan model.OrderEvent, error)
	Close() error
}

type message struct {
	Type        model.OrderEventType `json:"type"`
	OrderID     int64                `json:"orderId"`
	OrderNumber int64                `json:"orderNumber"`
	UserName    string               `json:"userName"`
	TableNumber int64                `json:"tableNumber"`
	TotalPrice  money.Amount         `json:"totalPrice"`
	Status      model.OrderStatus    `json:"status"`
	OccurredAt  time.Time            `json:"occurredAt"`
}

func encode(event model.OrderEvent) ([]byte, error) {
	data, err := json.Marshal(message{
		Type:        event.Type,
		OrderID:     event.OrderID,
		OrderNumber: event.OrderNumber,
		UserName:    event.UserName,
		TableNumber: event.TableNumber,
		TotalPrice:  event.TotalPrice,
		Status:      event.Status,
		OccurredAt:  event.OccurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode order event: %w", err)
	}
	return data, nil
}

func decode(data []byte) (model.OrderEvent, error) {
	var m message
	if err := json.Unmarshal(data, &m); err != nil {
		return model.OrderEvent{}, fmt.Errorf("decode order event: %w", err)
	}
	return model.OrderEvent{
		Type:        m.Type,
		OrderID:     m.OrderID,
		OrderNumber: m.OrderNumber,
		UserName:    m.UserName,
		TableNumber: m.TableNumber,
		TotalPrice:  m.TotalPrice,
		Status:      m.Status,
		OccurredAt:  m.OccurredAt,
	}, nil
}
