package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/pocha/internal/app"
	"github.com/polkiloo/pocha/internal/config"
	"github.com/polkiloo/pocha/internal/domain/repository"
	"github.com/polkiloo/pocha/internal/server/http/handlers"
	"github.com/polkiloo/pocha/internal/storage/postgres"
	"github.com/polkiloo/pocha/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		AuthSecret:      "secret",
		ShutdownTimeout: time.Millisecond,
		EventsBroker:    config.BrokerMemory,
		StreamKeepAlive: time.Second,
		RelayWorkers:    1,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := test.NewMemoryStore()

	var (
		facade handlers.PochaFacade
		engine *gin.Engine
		pocha  *app.PochaFacade
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(store.Users())),
			fx.Replace(repository.OrderRepository(store.Orders())),
			fx.Replace(repository.CartRepository(store.Carts())),
		),
		fx.Populate(&facade, &engine, &pocha),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || engine == nil || pocha == nil {
		t.Fatal("expected facade and router instances")
	}
	if facade != handlers.PochaFacade(pocha) {
		t.Fatal("expected handlers facade to be the application facade")
	}
}
