package auth

import (
	"github.com/polkiloo/pocha/internal/config"
	"go.uber.org/fx"
)

// Module provides token verification via fx.
var Module = fx.Options(
	fx.Provide(newTokenStrategy),
)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.AuthSecret, Options{})
}
