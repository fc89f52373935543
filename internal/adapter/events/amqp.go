package events

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// AMQPExchange is the fanout exchange order events are published to.
const AMQPExchange = "pocha.orders"

// amqpChannel is satisfied by *amqp.Channel.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var dialAMQP = func(url string) (amqpChannel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn, nil
}

// AMQPBroker relays events through a RabbitMQ fanout exchange. Each
// subscription binds its own exclusive queue.
type AMQPBroker struct {
	ch     amqpChannel
	conn   io.Closer
	logger *slog.Logger
	mu     sync.Mutex
}

// NewAMQPBroker dials url and declares the exchange.
func NewAMQPBroker(url string, logger *slog.Logger) (*AMQPBroker, error) {
	ch, conn, err := dialAMQP(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	if err := ch.ExchangeDeclare(AMQPExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp declare exchange: %w", err)
	}
	return &AMQPBroker{ch: ch, conn: conn, logger: logger}, nil
}

func (b *AMQPBroker) Publish(ctx context.Context, event model.OrderEvent) error {
	data, err := encode(event)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	err = b.ch.PublishWithContext(ctx, AMQPExchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Transient,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         data,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func (b *AMQPBroker) Subscribe(ctx context.Context) (<-chan model.OrderEvent, error) {
	b.mu.Lock()
	deliveries, err := b.bindQueue()
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make(chan model.OrderEvent, subscriptionBuffer)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				event, err := decode(d.Body)
				if err != nil {
					b.logger.Warn("skip malformed amqp event", slog.String("error", err.Error()))
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

func (b *AMQPBroker) bindQueue() (<-chan amqp.Delivery, error) {
	q, err := b.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("amqp declare queue: %w", err)
	}
	if err := b.ch.QueueBind(q.Name, "", AMQPExchange, false, nil); err != nil {
		return nil, fmt.Errorf("amqp bind queue: %w", err)
	}
	deliveries, err := b.ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("amqp consume: %w", err)
	}
	return deliveries, nil
}

func (b *AMQPBroker) Close() error {
	chErr := b.ch.Close()
	connErr := b.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}
