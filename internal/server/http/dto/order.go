package dto

import (
	"time"

	"github.com/polkiloo/pocha/internal/pkg/money"
)

// CreateOrderRequest checks out explicit items or, with FromCart, the stored cart.
type CreateOrderRequest struct {
	UserID        string        `json:"userId"`
	Items         []LineDTO     `json:"items"`
	FromCart      bool          `json:"fromCart"`
	TableNumber   int64         `json:"tableNumber"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentID     string        `json:"paymentId"`
	TotalPrice    *money.Amount `json:"totalPrice,omitempty"`
}

// EditOrderRequest is a partial admin update. Absent fields stay unchanged.
type EditOrderRequest struct {
	ID            int64         `json:"id"`
	TableNumber   *int64        `json:"tableNumber,omitempty"`
	PaymentMethod *string       `json:"paymentMethod,omitempty"`
	PaymentID     *string       `json:"paymentId,omitempty"`
	Items         []LineDTO     `json:"items,omitempty"`
	TotalPrice    *money.Amount `json:"totalPrice,omitempty"`
	Version       *int64        `json:"version,omitempty"`
}

// UpdateStatusRequest moves an order to another status.
type UpdateStatusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// DeleteOrdersRequest lists orders to remove.
type DeleteOrdersRequest struct {
	IDs []int64 `json:"ids"`
}

// DeleteOrdersResponse lists the orders that existed and were removed.
type DeleteOrdersResponse struct {
	DeletedIDs   []int64 `json:"deletedIds"`
	DeletedCount int     `json:"deletedCount"`
}

// OrderResponse describes an order.
type OrderResponse struct {
	ID            int64        `json:"id"`
	OrderNumber   int64        `json:"orderNumber"`
	UserID        string       `json:"userId"`
	UserName      string       `json:"userName"`
	UserEmail     string       `json:"userEmail"`
	UserAvatar    string       `json:"userAvatar"`
	TableNumber   int64        `json:"tableNumber"`
	PaymentMethod string       `json:"paymentMethod"`
	PaymentID     string       `json:"paymentId"`
	Items         []LineDTO    `json:"items"`
	TotalPrice    money.Amount `json:"totalPrice"`
	Status        string       `json:"status"`
	Version       int64        `json:"version"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// OrderListResponse is one page of orders.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// OrderEventResponse is the data of a stream event.
type OrderEventResponse struct {
	Type        string       `json:"type"`
	OrderID     int64        `json:"orderId"`
	OrderNumber int64        `json:"orderNumber"`
	UserName    string       `json:"userName"`
	TableNumber int64        `json:"tableNumber"`
	TotalPrice  money.Amount `json:"totalPrice"`
	Status      string       `json:"status"`
	OccurredAt  time.Time    `json:"occurredAt"`
}
