package events

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pocha/internal/config"
	"github.com/polkiloo/pocha/internal/metrics"
)

// Module provides the configured broker and the local hub.
var Module = fx.Options(
	fx.Provide(newBroker),
	fx.Provide(newHub),
	fx.Invoke(registerLifecycle),
)

type brokerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newBroker(p brokerParams) (Broker, error) {
	switch p.Config.EventsBroker {
	case "", config.BrokerMemory:
		return NewMemoryBroker(), nil
	case config.BrokerRedis:
		return NewRedisBroker(p.Config.RedisAddr, p.Logger), nil
	case config.BrokerAMQP:
		broker, err := NewAMQPBroker(p.Config.AMQPURL, p.Logger)
		if err != nil {
			return nil, err
		}
		return broker, nil
	default:
		return nil, fmt.Errorf("unknown events broker %q", p.Config.EventsBroker)
	}
}

func newHub(reg *metrics.Registry) *Hub {
	return NewHub(subscriptionBuffer, reg)
}

func registerLifecycle(lc fx.Lifecycle, broker Broker, hub *Hub) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Close()
			return broker.Close()
		},
	})
}
