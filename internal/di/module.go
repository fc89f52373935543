package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/pocha/internal/adapter/events"
	"github.com/polkiloo/pocha/internal/app"
	"github.com/polkiloo/pocha/internal/config"
	"github.com/polkiloo/pocha/internal/logger"
	"github.com/polkiloo/pocha/internal/metrics"
	"github.com/polkiloo/pocha/internal/pkg/auth"
	"github.com/polkiloo/pocha/internal/server/http/router"
	"github.com/polkiloo/pocha/internal/storage/postgres"
	"github.com/polkiloo/pocha/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
