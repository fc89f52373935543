package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-redis/redis/v8"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// RedisChannel is the Pub/Sub channel order events travel on.
const RedisChannel = "pocha:orders"

// redisConn is the part of go-redis the broker needs.
type redisConn interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error, error)
	Close() error
}

// RedisBroker relays events through Redis Pub/Sub so every instance sees them.
type RedisBroker struct {
	conn   redisConn
	logger *slog.Logger
}

// NewRedisBroker connects to addr.
func NewRedisBroker(addr string, logger *slog.Logger) *RedisBroker {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return newRedisBroker(&goRedisConn{client: client}, logger)
}

func newRedisBroker(conn redisConn, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{conn: conn, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, event model.OrderEvent) error {
	data, err := encode(event)
	if err != nil {
		return err
	}
	if err := b.conn.Publish(ctx, RedisChannel, data); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan model.OrderEvent, error) {
	payloads, unsubscribe, err := b.conn.Subscribe(ctx, RedisChannel)
	if err != nil {
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan model.OrderEvent, subscriptionBuffer)
	go func() {
		defer close(out)
		defer func() { _ = unsubscribe() }()
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-payloads:
				if !ok {
					return
				}
				event, err := decode(data)
				if err != nil {
					b.logger.Warn("skip malformed redis event", slog.String("error", err.Error()))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBroker) Close() error {
	return b.conn.Close()
}

type goRedisConn struct {
	client *redis.Client
}

func (c *goRedisConn) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.client.Publish(ctx, channel, payload).Err()
}

func (c *goRedisConn) Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error, error) {
	ps := c.client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan []byte, subscriptionBuffer)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() error {
		var err error
		once.Do(func() {
			close(done)
			err = ps.Close()
		})
		return err
	}
	return out, unsubscribe, nil
}

func (c *goRedisConn) Close() error {
	return c.client.Close()
}
