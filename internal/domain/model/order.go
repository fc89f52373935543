package model

import (
	"time"

	"github.com/polkiloo/pocha/internal/pkg/money"
)

// OrderStatus is the order lifecycle label.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in progress"
	OrderStatusComplete   OrderStatus = "complete"
	OrderStatusDeclined   OrderStatus = "declined"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusComplete,
	OrderStatusDeclined,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusComplete, OrderStatusDeclined},
	OrderStatusInProgress: {OrderStatusPending, OrderStatusComplete, OrderStatusDeclined},
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusComplete, OrderStatusDeclined:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusComplete || s == OrderStatusDeclined
}

// CanTransitionTo reports whether an order in status s may move to next.
// Staying in the same status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod is the manual payment channel the buyer used.
type PaymentMethod string

const (
	PaymentMethodVenmo PaymentMethod = "venmo"
	PaymentMethodZelle PaymentMethod = "zelle"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodVenmo || m == PaymentMethodZelle
}

// Order is a checked out cart. Items are a snapshot taken at checkout.
type Order struct {
	ID            int64
	OrderNumber   int64
	UserID        string
	UserName      string
	UserEmail     string
	UserAvatar    string
	TableNumber   int64
	PaymentMethod PaymentMethod
	PaymentID     string
	Items         []CartLine
	TotalPrice    money.Amount
	Status        OrderStatus
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Checkout describes a request to turn lines or the stored cart into an order.
type Checkout struct {
	UserID        string
	Lines         []CartLine
	FromCart      bool
	TableNumber   int64
	PaymentMethod PaymentMethod
	PaymentID     string
	ClientTotal   *money.Amount
}

// OrderPatch carries the admin editable fields of an order. Nil means unchanged.
type OrderPatch struct {
	TableNumber   *int64
	PaymentMethod *PaymentMethod
	PaymentID     *string
	Items         []CartLine
	ClientTotal   *money.Amount
	Version       *int64
}

// OrderSortField names a sortable order column.
type OrderSortField string

const (
	OrderSortCreatedAt   OrderSortField = "createdAt"
	OrderSortOrderNumber OrderSortField = "orderNumber"
	OrderSortTotalPrice  OrderSortField = "totalPrice"
	OrderSortStatus      OrderSortField = "status"
)

// OrderFilter selects a page of orders.
type OrderFilter struct {
	UserID     string
	Status     OrderStatus
	SortBy     OrderSortField
	Descending bool
	Limit      int
	Offset     int
}

// OrderPage is one page of orders plus the number of matching rows.
type OrderPage struct {
	Orders []Order
	Total  int64
}
