package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/fx"
)

func TestRunStopsWhenContextEnds(t *testing.T) {
	stopped := false
	app := fx.New(fx.NopLogger, fx.Invoke(func(lc fx.Lifecycle) {
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			stopped = true
			return nil
		}})
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(20*time.Millisecond, cancel)

	if err := run(ctx, app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stopped {
		t.Fatal("expected stop hooks to run")
	}
}

func TestRunReportsBuildErrors(t *testing.T) {
	app := fx.New(fx.NopLogger, fx.Invoke(func() error { return errors.New("boom") }))
	if err := run(context.Background(), app); err == nil {
		t.Fatal("expected build error")
	}
}
