package model

import (
	"time"

	"github.com/polkiloo/pocha/internal/pkg/money"
)

// OrderEventType names what happened to an order.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status"
)

// OrderEvent is pushed to admin dashboards.
type OrderEvent struct {
	Type        OrderEventType
	OrderID     int64
	OrderNumber int64
	UserName    string
	TableNumber int64
	TotalPrice  money.Amount
	Status      OrderStatus
	OccurredAt  time.Time
}

// NewOrderEvent builds an event describing order.
func NewOrderEvent(kind OrderEventType, order Order) OrderEvent {
	at := order.UpdatedAt
	if kind == OrderEventCreated || at.IsZero() {
		at = order.CreatedAt
	}
	return OrderEvent{
		Type:        kind,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserName:    order.UserName,
		TableNumber: order.TableNumber,
		TotalPrice:  order.TotalPrice,
		Status:      order.Status,
		OccurredAt:  at,
	}
}
