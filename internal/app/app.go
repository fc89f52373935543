package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/pocha/internal/adapter/events"
	"github.com/polkiloo/pocha/internal/config"
	"github.com/polkiloo/pocha/internal/server/http/handlers"
	"github.com/polkiloo/pocha/internal/usecase"
	"github.com/polkiloo/pocha/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newPochaFacade,
		func(f *PochaFacade) handlers.PochaFacade { return f },
		newHTTPServer,
		newEventRelay,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Access    *usecase.AccessUseCase
	Catalog   *usecase.CatalogUseCase
	Carts     *usecase.CartUseCase
	Orders    *usecase.OrderUseCase
	Analytics *usecase.AnalyticsUseCase
	Hub       *events.Hub
	Health    HealthChecker
}

func newPochaFacade(p facadeParams) *PochaFacade {
	return NewPochaFacade(FacadeParams{
		Access:    p.Access,
		Catalog:   p.Catalog,
		Carts:     p.Carts,
		Orders:    p.Orders,
		Analytics: p.Analytics,
		Feed:      p.Hub,
		Health:    p.Health,
	})
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type relayParams struct {
	fx.In

	Broker events.Broker
	Hub    *events.Hub
	Config *config.Config
	Logger *slog.Logger
}

func newEventRelay(p relayParams) *worker.OrderEventRelay {
	return worker.NewOrderEventRelay(p.Broker, p.Hub, p.Config.RelayWorkers, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Relay      *worker.OrderEventRelay
	Streams    *events.Hub
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting pocha", slog.String("addr", p.Server.Addr))
			if err := p.Relay.Start(ctx); err != nil {
				return err
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Relay.Stop()
			// Open streams hold their connections until the hub closes them.
			if p.Streams != nil {
				p.Streams.Close()
			}

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("pocha stopped")
			return nil
		},
	})
}
