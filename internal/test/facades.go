package test

import (
	"context"
	"sync"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/pkg/money"
)

// PochaFacadeStub provides controllable behaviour for every HTTP endpoint.
// Nil functions fall back to a harmless default.
type PochaFacadeStub struct {
	ResolveFn     func(context.Context, string) (model.Caller, error)
	ProfileFn     func(context.Context, model.Caller) (*model.User, error)
	SaveProfileFn func(ctx context.Context, caller model.Caller, name, email, avatar string) (*model.User, error)
	SetRoleFn     func(context.Context, model.Caller, string, model.Role) error

	ItemsFn         func(context.Context) ([]model.Item, error)
	CreateItemFn    func(context.Context, model.Caller, model.Item) (*model.Item, error)
	UpdateItemFn    func(context.Context, model.Caller, model.Item) (*model.Item, error)
	DeleteItemFn    func(context.Context, model.Caller, int64) (int64, error)
	LabelsFn        func(context.Context, string) ([]model.Label, error)
	CreateLabelFn   func(context.Context, model.Caller, string, string) (*model.Label, error)
	RenameLabelFn   func(context.Context, model.Caller, string, int64, string) (*model.Label, error)
	DeleteLabelFn   func(context.Context, model.Caller, string, int64) (int64, error)
	TablesFn        func(context.Context) ([]model.Table, error)
	CreateTableFn   func(context.Context, model.Caller, int64) (*model.Table, error)
	RenumberTableFn func(context.Context, model.Caller, int64, int64) (*model.Table, error)
	DeleteTableFn   func(context.Context, model.Caller, int64) (int64, error)

	CartFn        func(context.Context, model.Caller, string) (*model.Cart, error)
	AddToCartFn   func(context.Context, model.Caller, string, []model.CartLine) (*model.Cart, error)
	ReplaceCartFn func(context.Context, model.Caller, string, []model.CartLine, *int64) (*model.Cart, error)

	CreateOrderFn  func(context.Context, model.Caller, model.Checkout) (*model.Order, error)
	EditOrderFn    func(context.Context, model.Caller, int64, model.OrderPatch) (*model.Order, error)
	UpdateStatusFn func(context.Context, model.Caller, int64, model.OrderStatus) (*model.Order, error)
	DeleteOrdersFn func(context.Context, model.Caller, []int64) ([]int64, error)
	OrdersFn       func(context.Context, model.Caller, model.OrderFilter) (*model.OrderPage, error)

	ReplayFn    func(context.Context, model.Caller, int64, int) ([]model.Order, error)
	SubscribeFn func() (<-chan model.OrderEvent, func())

	OrderCountsFn func(context.Context, model.Caller) (*model.OrderCounts, error)
	ProfitFn      func(context.Context, model.Caller) (*model.ProfitReport, error)

	HealthFn func(context.Context) error
}

func (s PochaFacadeStub) ResolveCaller(ctx context.Context, token string) (model.Caller, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, token)
	}
	return model.Caller{ID: "user-1", Role: model.RoleUser}, nil
}

func (s PochaFacadeStub) Profile(ctx context.Context, caller model.Caller) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, caller)
	}
	return &model.User{ID: caller.ID, Role: caller.Role}, nil
}

func (s PochaFacadeStub) SaveProfile(ctx context.Context, caller model.Caller, name, email, avatar string) (*model.User, error) {
	if s.SaveProfileFn != nil {
		return s.SaveProfileFn(ctx, caller, name, email, avatar)
	}
	return &model.User{ID: caller.ID, Name: name, Email: email, Avatar: avatar, Role: model.RoleUser}, nil
}

func (s PochaFacadeStub) SetRole(ctx context.Context, caller model.Caller, userID string, role model.Role) error {
	if s.SetRoleFn != nil {
		return s.SetRoleFn(ctx, caller, userID, role)
	}
	return nil
}

func (s PochaFacadeStub) Items(ctx context.Context) ([]model.Item, error) {
	if s.ItemsFn != nil {
		return s.ItemsFn(ctx)
	}
	return []model.Item{{ID: 1, Name: "Tteokbokki", Price: money.MustParse("8.50")}}, nil
}

func (s PochaFacadeStub) CreateItem(ctx context.Context, caller model.Caller, item model.Item) (*model.Item, error) {
	if s.CreateItemFn != nil {
		return s.CreateItemFn(ctx, caller, item)
	}
	item.ID = 1
	return &item, nil
}

func (s PochaFacadeStub) UpdateItem(ctx context.Context, caller model.Caller, item model.Item) (*model.Item, error) {
	if s.UpdateItemFn != nil {
		return s.UpdateItemFn(ctx, caller, item)
	}
	return &item, nil
}

func (s PochaFacadeStub) DeleteItem(ctx context.Context, caller model.Caller, id int64) (int64, error) {
	if s.DeleteItemFn != nil {
		return s.DeleteItemFn(ctx, caller, id)
	}
	return id, nil
}

func (s PochaFacadeStub) Labels(ctx context.Context, kind string) ([]model.Label, error) {
	if s.LabelsFn != nil {
		return s.LabelsFn(ctx, kind)
	}
	return []model.Label{{ID: 1, Name: kind}}, nil
}

func (s PochaFacadeStub) CreateLabel(ctx context.Context, caller model.Caller, kind, name string) (*model.Label, error) {
	if s.CreateLabelFn != nil {
		return s.CreateLabelFn(ctx, caller, kind, name)
	}
	return &model.Label{ID: 1, Name: name}, nil
}

func (s PochaFacadeStub) RenameLabel(ctx context.Context, caller model.Caller, kind string, id int64, name string) (*model.Label, error) {
	if s.RenameLabelFn != nil {
		return s.RenameLabelFn(ctx, caller, kind, id, name)
	}
	return &model.Label{ID: id, Name: name}, nil
}

func (s PochaFacadeStub) DeleteLabel(ctx context.Context, caller model.Caller, kind string, id int64) (int64, error) {
	if s.DeleteLabelFn != nil {
		return s.DeleteLabelFn(ctx, caller, kind, id)
	}
	return id, nil
}

func (s PochaFacadeStub) Tables(ctx context.Context) ([]model.Table, error) {
	if s.TablesFn != nil {
		return s.TablesFn(ctx)
	}
	return []model.Table{{ID: 1, Number: 1}}, nil
}

func (s PochaFacadeStub) CreateTable(ctx context.Context, caller model.Caller, number int64) (*model.Table, error) {
	if s.CreateTableFn != nil {
		return s.CreateTableFn(ctx, caller, number)
	}
	return &model.Table{ID: number, Number: number}, nil
}

func (s PochaFacadeStub) RenumberTable(ctx context.Context, caller model.Caller, id, number int64) (*model.Table, error) {
	if s.RenumberTableFn != nil {
		return s.RenumberTableFn(ctx, caller, id, number)
	}
	return &model.Table{ID: number, Number: number}, nil
}

func (s PochaFacadeStub) DeleteTable(ctx context.Context, caller model.Caller, id int64) (int64, error) {
	if s.DeleteTableFn != nil {
		return s.DeleteTableFn(ctx, caller, id)
	}
	return id, nil
}

func (s PochaFacadeStub) Cart(ctx context.Context, caller model.Caller, userID string) (*model.Cart, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, caller, userID)
	}
	return &model.Cart{UserID: userID}, nil
}

func (s PochaFacadeStub) AddToCart(ctx context.Context, caller model.Caller, userID string, lines []model.CartLine) (*model.Cart, error) {
	if s.AddToCartFn != nil {
		return s.AddToCartFn(ctx, caller, userID, lines)
	}
	return &model.Cart{UserID: userID, Lines: model.MergeCart(nil, lines), Version: 1}, nil
}

func (s PochaFacadeStub) ReplaceCart(ctx context.Context, caller model.Caller, userID string, lines []model.CartLine, version *int64) (*model.Cart, error) {
	if s.ReplaceCartFn != nil {
		return s.ReplaceCartFn(ctx, caller, userID, lines, version)
	}
	return &model.Cart{UserID: userID, Lines: model.MergeCart(nil, lines), Version: 1}, nil
}

func (s PochaFacadeStub) CreateOrder(ctx context.Context, caller model.Caller, checkout model.Checkout) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, caller, checkout)
	}
	lines := model.MergeCart(nil, checkout.Lines)
	return &model.Order{
		ID:            1,
		OrderNumber:   1001,
		UserID:        checkout.UserID,
		TableNumber:   checkout.TableNumber,
		PaymentMethod: checkout.PaymentMethod,
		Items:         lines,
		TotalPrice:    model.LinesTotal(lines),
		Status:        model.OrderStatusPending,
		Version:       1,
	}, nil
}

func (s PochaFacadeStub) EditOrder(ctx context.Context, caller model.Caller, id int64, patch model.OrderPatch) (*model.Order, error) {
	if s.EditOrderFn != nil {
		return s.EditOrderFn(ctx, caller, id, patch)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending, Version: 2}, nil
}

func (s PochaFacadeStub) UpdateOrderStatus(ctx context.Context, caller model.Caller, id int64, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, caller, id, status)
	}
	return &model.Order{ID: id, Status: status, Version: 2}, nil
}

func (s PochaFacadeStub) DeleteOrders(ctx context.Context, caller model.Caller, ids []int64) ([]int64, error) {
	if s.DeleteOrdersFn != nil {
		return s.DeleteOrdersFn(ctx, caller, ids)
	}
	return ids, nil
}

func (s PochaFacadeStub) Orders(ctx context.Context, caller model.Caller, filter model.OrderFilter) (*model.OrderPage, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, caller, filter)
	}
	return &model.OrderPage{}, nil
}

func (s PochaFacadeStub) ReplayOrders(ctx context.Context, caller model.Caller, afterID int64, limit int) ([]model.Order, error) {
	if s.ReplayFn != nil {
		return s.ReplayFn(ctx, caller, afterID, limit)
	}
	return nil, nil
}

func (s PochaFacadeStub) SubscribeOrders() (<-chan model.OrderEvent, func()) {
	if s.SubscribeFn != nil {
		return s.SubscribeFn()
	}
	ch := make(chan model.OrderEvent)
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }
}

func (s PochaFacadeStub) OrderCounts(ctx context.Context, caller model.Caller) (*model.OrderCounts, error) {
	if s.OrderCountsFn != nil {
		return s.OrderCountsFn(ctx, caller)
	}
	return &model.OrderCounts{}, nil
}

func (s PochaFacadeStub) Profit(ctx context.Context, caller model.Caller) (*model.ProfitReport, error) {
	if s.ProfitFn != nil {
		return s.ProfitFn(ctx, caller)
	}
	return &model.ProfitReport{Total: money.Zero(), PerOrganization: map[string]money.Amount{}}, nil
}

func (s PochaFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// EventFeed is a subscription source tests push events into.
type EventFeed struct {
	mu   sync.Mutex
	subs []chan model.OrderEvent
}

// Subscribe matches PochaFacadeStub.SubscribeFn.
func (f *EventFeed) Subscribe() (<-chan model.OrderEvent, func()) {
	ch := make(chan model.OrderEvent, 16)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch, func() {}
}

// Subscribers reports how many subscriptions were opened.
func (f *EventFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Push delivers event to every subscriber.
func (f *EventFeed) Push(event model.OrderEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		ch <- event
	}
}

// Close ends every subscription.
func (f *EventFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		close(ch)
	}
	f.subs = nil
}
