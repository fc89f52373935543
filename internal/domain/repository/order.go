package repository

import (
	"context"
	"errors"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/pkg/money"
)

// OrderDraft builds the order to insert from the locked cart lines.
type OrderDraft func(cartLines []model.CartLine) (model.Order, error)

// OrderMutation computes the next state of a locked order.
type OrderMutation func(current model.Order) (model.Order, error)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (*model.Order, error)
	// CreateFromCart inserts the drafted order and empties the user's cart atomically.
	CreateFromCart(ctx context.Context, userID string, draft OrderDraft) (*model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error)
	ListAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, error)
	Update(ctx context.Context, id int64, fn OrderMutation) (*model.Order, error)
	// Delete removes the given orders and returns the ids that existed.
	Delete(ctx context.Context, ids []int64) ([]int64, error)
}

// AnalyticsRepository aggregates order data.
type AnalyticsRepository interface {
	CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
	ProfitByOrganization(ctx context.Context) (map[string]money.Amount, error)
}

// ErrNoChange may be returned by a mutation to leave the stored record untouched.
var ErrNoChange = errors.New("no change")
