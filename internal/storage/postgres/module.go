package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pocha/internal/config"
	"github.com/polkiloo/pocha/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Factory { return s },
		func(s *Storage) repository.UserRepository { return s.Users() },
		func(s *Storage) repository.ItemRepository { return s.Items() },
		func(s *Storage) repository.TableRepository { return s.Tables() },
		func(s *Storage) repository.CartRepository { return s.Carts() },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.AnalyticsRepository { return s.Analytics() },
		fx.Annotate(
			func(s *Storage) repository.LabelRepository { return s.Organizations() },
			fx.ResultTags(`name:"organizations"`),
		),
		fx.Annotate(
			func(s *Storage) repository.LabelRepository { return s.ItemTypes() },
			fx.ResultTags(`name:"itemTypes"`),
		),
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
