package logger

import "go.uber.org/fx"

// Module wires slog logger for dependency injection and makes fx log through it.
var Module = fx.Options(
	fx.Provide(New),
	fx.WithLogger(NewFxLogger),
)
