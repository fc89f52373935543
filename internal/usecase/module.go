package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pocha/internal/adapter/events"
	"github.com/polkiloo/pocha/internal/config"
	"github.com/polkiloo/pocha/internal/domain/repository"
	"github.com/polkiloo/pocha/internal/metrics"
	pkgAuth "github.com/polkiloo/pocha/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newAccessUseCase,
	NewCatalogUseCase,
	NewCartUseCase,
	newOrderUseCase,
	NewAnalyticsUseCase,
)

func newAccessUseCase(users repository.UserRepository, tokens pkgAuth.Strategy, cfg *config.Config) *AccessUseCase {
	return NewAccessUseCase(users, tokens, cfg.IsAdminEmail)
}

type orderParams struct {
	fx.In

	Orders  repository.OrderRepository
	Users   repository.UserRepository
	Broker  events.Broker
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Users, p.Broker, p.Metrics, p.Logger)
}
