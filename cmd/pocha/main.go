// Command pocha serves the pop-up vendor ordering API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/polkiloo/pocha/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		di.Module(),
	)
	if err := run(ctx, app); err != nil {
		fmt.Fprintf(os.Stderr, "pocha: %v\n", err)
		stop()
		os.Exit(1)
	}
}
