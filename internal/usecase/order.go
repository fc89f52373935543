package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/domain/repository"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 200
)

// EventPublisher hands order events to the fan-out backend.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

// OrderMetrics counts order activity.
type OrderMetrics interface {
	OrderCreated()
	StatusChanged(from, to string)
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	events  EventPublisher
	metrics OrderMetrics
	logger  *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, events EventPublisher, metrics OrderMetrics, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, events: events, metrics: metrics, logger: logger}
}

// Create checks out explicit lines or, with FromCart, the stored cart. The
// cart is cleared in the same transaction as the insert.
func (u *OrderUseCase) Create(ctx context.Context, caller model.Caller, checkout model.Checkout) (*model.Order, error) {
	if err := requireOwner(caller, checkout.UserID); err != nil {
		return nil, err
	}
	if err := requireTableNumber(checkout.TableNumber); err != nil {
		return nil, err
	}
	if !checkout.PaymentMethod.Valid() {
		return nil, invalid("payment method must be venmo or zelle")
	}
	paymentID, err := requireName("paymentId", checkout.PaymentID)
	if err != nil {
		return nil, err
	}

	base, err := u.buyerSnapshot(ctx, checkout.UserID)
	if err != nil {
		return nil, err
	}
	base.TableNumber = checkout.TableNumber
	base.PaymentMethod = checkout.PaymentMethod
	base.PaymentID = paymentID
	base.Status = model.OrderStatusPending

	draft := func(lines []model.CartLine) (model.Order, error) {
		if len(lines) == 0 {
			if checkout.FromCart {
				return model.Order{}, domainErrors.ErrEmptyCart
			}
			return model.Order{}, invalid("at least one line is required")
		}
		normalized, err := normalizeLines(lines)
		if err != nil {
			return model.Order{}, err
		}
		total := model.LinesTotal(normalized)
		if err := checkClientTotal(checkout.ClientTotal, total); err != nil {
			return model.Order{}, err
		}
		order := base
		order.Items = normalized
		order.TotalPrice = total
		return order, nil
	}

	var order *model.Order
	if checkout.FromCart {
		order, err = u.orders.CreateFromCart(ctx, checkout.UserID, draft)
	} else {
		var drafted model.Order
		if drafted, err = draft(checkout.Lines); err != nil {
			return nil, err
		}
		order, err = u.orders.Create(ctx, drafted)
	}
	if err != nil {
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.OrderCreated()
	}
	u.publish(ctx, model.NewOrderEvent(model.OrderEventCreated, *order))
	return order, nil
}

func (u *OrderUseCase) buyerSnapshot(ctx context.Context, userID string) (model.Order, error) {
	order := model.Order{UserID: userID}
	user, err := u.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return order, nil
	case err != nil:
		return order, err
	}
	order.UserName = user.Name
	order.UserEmail = user.Email
	order.UserAvatar = user.Avatar
	return order, nil
}

// Edit applies an admin patch. Line totals and the order total are
// recomputed from the resulting lines.
func (u *OrderUseCase) Edit(ctx context.Context, caller model.Caller, id int64, patch model.OrderPatch) (*model.Order, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	if patch.TableNumber != nil {
		if err := requireTableNumber(*patch.TableNumber); err != nil {
			return nil, err
		}
	}
	if patch.PaymentMethod != nil && !patch.PaymentMethod.Valid() {
		return nil, invalid("payment method must be venmo or zelle")
	}
	var paymentID string
	if patch.PaymentID != nil {
		var err error
		if paymentID, err = requireName("paymentId", *patch.PaymentID); err != nil {
			return nil, err
		}
	}
	var items []model.CartLine
	if patch.Items != nil {
		if len(patch.Items) == 0 {
			return nil, invalid("an order needs at least one line")
		}
		var err error
		if items, err = normalizeLines(patch.Items); err != nil {
			return nil, err
		}
	}

	return u.orders.Update(ctx, id, func(current model.Order) (model.Order, error) {
		if patch.Version != nil && *patch.Version != current.Version {
			return current, fmt.Errorf("%w: order version is %d", domainErrors.ErrConflict, current.Version)
		}
		if patch.TableNumber != nil {
			current.TableNumber = *patch.TableNumber
		}
		if patch.PaymentMethod != nil {
			current.PaymentMethod = *patch.PaymentMethod
		}
		if patch.PaymentID != nil {
			current.PaymentID = paymentID
		}
		if items != nil {
			current.Items = items
		}
		current.TotalPrice = model.LinesTotal(current.Items)
		if err := checkClientTotal(patch.ClientTotal, current.TotalPrice); err != nil {
			return current, err
		}
		return current, nil
	})
}

// UpdateStatus moves an order along the status graph. Setting the current
// status again succeeds without writing.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, caller model.Caller, id int64, status model.OrderStatus) (*model.Order, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}

	var from model.OrderStatus
	changed := false
	order, err := u.orders.Update(ctx, id, func(current model.Order) (model.Order, error) {
		from = current.Status
		if current.Status == status {
			return current, repository.ErrNoChange
		}
		if !current.Status.CanTransitionTo(status) {
			return current, fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, current.Status, status)
		}
		current.Status = status
		changed = true
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		if u.metrics != nil {
			u.metrics.StatusChanged(string(from), string(status))
		}
		u.publish(ctx, model.NewOrderEvent(model.OrderEventStatusChanged, *order))
	}
	return order, nil
}

// Delete removes orders and returns the ids that existed.
func (u *OrderUseCase) Delete(ctx context.Context, caller model.Caller, ids []int64) ([]int64, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, invalid("ids are required")
	}
	for _, id := range ids {
		if err := requireID(id); err != nil {
			return nil, err
		}
	}
	deleted, err := u.orders.Delete(ctx, ids)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		deleted = []int64{}
	}
	return deleted, nil
}

// List returns a page of orders. Non-admin callers only ever see their own.
func (u *OrderUseCase) List(ctx context.Context, caller model.Caller, filter model.OrderFilter) (*model.OrderPage, error) {
	if err := requireSignedIn(caller); err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		filter.UserID = caller.ID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown status %q", filter.Status)
	}
	switch filter.SortBy {
	case "":
		filter.SortBy = model.OrderSortCreatedAt
	case model.OrderSortCreatedAt, model.OrderSortOrderNumber, model.OrderSortTotalPrice, model.OrderSortStatus:
	default:
		return nil, invalid("unknown sort field %q", filter.SortBy)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultOrderLimit
	}
	if filter.Limit > maxOrderLimit {
		filter.Limit = maxOrderLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.UserID = strings.TrimSpace(filter.UserID)
	return u.orders.List(ctx, filter)
}

// Replay returns orders inserted after the cursor, oldest first. Admin only.
func (u *OrderUseCase) Replay(ctx context.Context, caller model.Caller, afterID int64, limit int) ([]model.Order, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if afterID < 0 {
		afterID = 0
	}
	if limit <= 0 || limit > maxOrderLimit {
		limit = maxOrderLimit
	}
	return u.orders.ListAfter(ctx, afterID, limit)
}

func (u *OrderUseCase) publish(ctx context.Context, event model.OrderEvent) {
	if u.events == nil {
		return
	}
	if err := u.events.Publish(ctx, event); err != nil {
		u.logger.Error("publish order event failed",
			slog.String("type", string(event.Type)),
			slog.Int64("order_id", event.OrderID),
			slog.String("error", err.Error()),
		)
	}
}
