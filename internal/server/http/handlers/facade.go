package handlers

import (
	"context"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// IdentityFacade resolves callers from bearer tokens.
type IdentityFacade interface {
	ResolveCaller(ctx context.Context, token string) (model.Caller, error)
}

// UserFacade manages the caller's profile and user roles.
type UserFacade interface {
	Profile(ctx context.Context, caller model.Caller) (*model.User, error)
	SaveProfile(ctx context.Context, caller model.Caller, name, email, avatar string) (*model.User, error)
	SetRole(ctx context.Context, caller model.Caller, userID string, role model.Role) error
}

// CatalogFacade exposes items, labels and tables.
type CatalogFacade interface {
	Items(ctx context.Context) ([]model.Item, error)
	CreateItem(ctx context.Context, caller model.Caller, item model.Item) (*model.Item, error)
	UpdateItem(ctx context.Context, caller model.Caller, item model.Item) (*model.Item, error)
	DeleteItem(ctx context.Context, caller model.Caller, id int64) (int64, error)

	Labels(ctx context.Context, kind string) ([]model.Label, error)
	CreateLabel(ctx context.Context, caller model.Caller, kind, name string) (*model.Label, error)
	RenameLabel(ctx context.Context, caller model.Caller, kind string, id int64, name string) (*model.Label, error)
	DeleteLabel(ctx context.Context, caller model.Caller, kind string, id int64) (int64, error)

	Tables(ctx context.Context) ([]model.Table, error)
	CreateTable(ctx context.Context, caller model.Caller, number int64) (*model.Table, error)
	RenumberTable(ctx context.Context, caller model.Caller, id, number int64) (*model.Table, error)
	DeleteTable(ctx context.Context, caller model.Caller, id int64) (int64, error)
}

// CartFacade exposes per-user carts.
type CartFacade interface {
	Cart(ctx context.Context, caller model.Caller, userID string) (*model.Cart, error)
	AddToCart(ctx context.Context, caller model.Caller, userID string, lines []model.CartLine) (*model.Cart, error)
	ReplaceCart(ctx context.Context, caller model.Caller, userID string, lines []model.CartLine, version *int64) (*model.Cart, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, caller model.Caller, checkout model.Checkout) (*model.Order, error)
	EditOrder(ctx context.Context, caller model.Caller, id int64, patch model.OrderPatch) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, caller model.Caller, id int64, status model.OrderStatus) (*model.Order, error)
	DeleteOrders(ctx context.Context, caller model.Caller, ids []int64) ([]int64, error)
	Orders(ctx context.Context, caller model.Caller, filter model.OrderFilter) (*model.OrderPage, error)
}

// StreamFacade feeds the order event stream.
type StreamFacade interface {
	ReplayOrders(ctx context.Context, caller model.Caller, afterID int64, limit int) ([]model.Order, error)
	SubscribeOrders() (<-chan model.OrderEvent, func())
}

// AnalyticsFacade provides admin reports.
type AnalyticsFacade interface {
	OrderCounts(ctx context.Context, caller model.Caller) (*model.OrderCounts, error)
	Profit(ctx context.Context, caller model.Caller) (*model.ProfitReport, error)
}

// HealthFacade reports backing service health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// PochaFacade aggregates the full set of operations used across handlers.
type PochaFacade interface {
	IdentityFacade
	UserFacade
	CatalogFacade
	CartFacade
	OrderFacade
	StreamFacade
	AnalyticsFacade
	HealthFacade
}
