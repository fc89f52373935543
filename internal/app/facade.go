package app

import (
	"context"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// OrderFeed hands out live order event subscriptions.
type OrderFeed interface {
	Subscribe() (<-chan model.OrderEvent, func())
}

// FacadeParams groups the use cases the facade delegates to.
type FacadeParams struct {
	Access    *usecase.AccessUseCase
	Catalog   *usecase.CatalogUseCase
	Carts     *usecase.CartUseCase
	Orders    *usecase.OrderUseCase
	Analytics *usecase.AnalyticsUseCase
	Feed      OrderFeed
	Health    HealthChecker
}

// PochaFacade adapts the use cases to the HTTP layer.
type PochaFacade struct {
	access    *usecase.AccessUseCase
	catalog   *usecase.CatalogUseCase
	carts     *usecase.CartUseCase
	orders    *usecase.OrderUseCase
	analytics *usecase.AnalyticsUseCase
	feed      OrderFeed
	health    HealthChecker
}

func NewPochaFacade(p FacadeParams) *PochaFacade {
	return &PochaFacade{
		access:    p.Access,
		catalog:   p.Catalog,
		carts:     p.Carts,
		orders:    p.Orders,
		analytics: p.Analytics,
		feed:      p.Feed,
		health:    p.Health,
	}
}

func (f *PochaFacade) ResolveCaller(ctx context.Context, token string) (model.Caller, error) {
	return f.access.ResolveCaller(ctx, token)
}

func (f *PochaFacade) Profile(ctx context.Context, caller model.Caller) (*model.User, error) {
	return f.access.Profile(ctx, caller)
}

func (f *PochaFacade) SaveProfile(ctx context.Context, caller model.Caller, name, email, avatar string) (*model.User, error) {
	return f.access.SaveProfile(ctx, caller, usecase.Profile{Name: name, Email: email, Avatar: avatar})
}

func (f *PochaFacade) SetRole(ctx context.Context, caller model.Caller, userID string, role model.Role) error {
	return f.access.SetRole(ctx, caller, userID, role)
}

func (f *PochaFacade) Items(ctx context.Context) ([]model.Item, error) {
	return f.catalog.Items(ctx)
}

func (f *PochaFacade) CreateItem(ctx context.Context, caller model.Caller, item model.Item) (*model.Item, error) {
	return f.catalog.CreateItem(ctx, caller, item)
}

func (f *PochaFacade) UpdateItem(ctx context.Context, caller model.Caller, item model.Item) (*model.Item, error) {
	return f.catalog.UpdateItem(ctx, caller, item)
}

func (f *PochaFacade) DeleteItem(ctx context.Context, caller model.Caller, id int64) (int64, error) {
	return f.catalog.DeleteItem(ctx, caller, id)
}

func (f *PochaFacade) Labels(ctx context.Context, kind string) ([]model.Label, error) {
	return f.catalog.Labels(ctx, usecase.LabelKind(kind))
}

func (f *PochaFacade) CreateLabel(ctx context.Context, caller model.Caller, kind, name string) (*model.Label, error) {
	return f.catalog.CreateLabel(ctx, caller, usecase.LabelKind(kind), name)
}

func (f *PochaFacade) RenameLabel(ctx context.Context, caller model.Caller, kind string, id int64, name string) (*model.Label, error) {
	return f.catalog.RenameLabel(ctx, caller, usecase.LabelKind(kind), id, name)
}

func (f *PochaFacade) DeleteLabel(ctx context.Context, caller model.Caller, kind string, id int64) (int64, error) {
	return f.catalog.DeleteLabel(ctx, caller, usecase.LabelKind(kind), id)
}

func (f *PochaFacade) Tables(ctx context.Context) ([]model.Table, error) {
	return f.catalog.Tables(ctx)
}

func (f *PochaFacade) CreateTable(ctx context.Context, caller model.Caller, number int64) (*model.Table, error) {
	return f.catalog.CreateTable(ctx, caller, number)
}

func (f *PochaFacade) RenumberTable(ctx context.Context, caller model.Caller, id, number int64) (*model.Table, error) {
	return f.catalog.RenumberTable(ctx, caller, id, number)
}

func (f *PochaFacade) DeleteTable(ctx context.Context, caller model.Caller, id int64) (int64, error) {
	return f.catalog.DeleteTable(ctx, caller, id)
}

func (f *PochaFacade) Cart(ctx context.Context, caller model.Caller, userID string) (*model.Cart, error) {
	return f.carts.Get(ctx, caller, userID)
}

func (f *PochaFacade) AddToCart(ctx context.Context, caller model.Caller, userID string, lines []model.CartLine) (*model.Cart, error) {
	return f.carts.Add(ctx, caller, userID, lines)
}

func (f *PochaFacade) ReplaceCart(ctx context.Context, caller model.Caller, userID string, lines []model.CartLine, version *int64) (*model.Cart, error) {
	return f.carts.Replace(ctx, caller, userID, lines, version)
}

func (f *PochaFacade) CreateOrder(ctx context.Context, caller model.Caller, checkout model.Checkout) (*model.Order, error) {
	return f.orders.Create(ctx, caller, checkout)
}

func (f *PochaFacade) EditOrder(ctx context.Context, caller model.Caller, id int64, patch model.OrderPatch) (*model.Order, error) {
	return f.orders.Edit(ctx, caller, id, patch)
}

func (f *PochaFacade) UpdateOrderStatus(ctx context.Context, caller model.Caller, id int64, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, caller, id, status)
}

func (f *PochaFacade) DeleteOrders(ctx context.Context, caller model.Caller, ids []int64) ([]int64, error) {
	return f.orders.Delete(ctx, caller, ids)
}

func (f *PochaFacade) Orders(ctx context.Context, caller model.Caller, filter model.OrderFilter) (*model.OrderPage, error) {
	return f.orders.List(ctx, caller, filter)
}

func (f *PochaFacade) ReplayOrders(ctx context.Context, caller model.Caller, afterID int64, limit int) ([]model.Order, error) {
	return f.orders.Replay(ctx, caller, afterID, limit)
}

func (f *PochaFacade) SubscribeOrders() (<-chan model.OrderEvent, func()) {
	return f.feed.Subscribe()
}

func (f *PochaFacade) OrderCounts(ctx context.Context, caller model.Caller) (*model.OrderCounts, error) {
	return f.analytics.OrderCounts(ctx, caller)
}

func (f *PochaFacade) Profit(ctx context.Context, caller model.Caller) (*model.ProfitReport, error) {
	return f.analytics.Profit(ctx, caller)
}

func (f *PochaFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
