package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// EventSource yields order events published by any instance.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan model.OrderEvent, error)
}

// EventSink delivers events to the stream connections of this instance.
type EventSink interface {
	Broadcast(event model.OrderEvent)
}

// OrderEventRelay consumes the broker subscription and fans events out to the
// local sink. Created events all go through the first worker, so they reach the
// sink in publish order and stream cursors stay monotonic. Status events are
// spread by order id; events of one order still keep their publish order.
type OrderEventRelay struct {
	source  EventSource
	sink    EventSink
	workers int
	logger  *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOrderEventRelay constructs the relay worker pool.
func NewOrderEventRelay(source EventSource, sink EventSink, workers int, logger *slog.Logger) *OrderEventRelay {
	if workers <= 0 {
		workers = 1
	}
	return &OrderEventRelay{
		source:  source,
		sink:    sink,
		workers: workers,
		logger:  logger,
	}
}

// Start subscribes to the source and launches the workers. The relay keeps
// running after ctx ends; call Stop to shut it down.
func (r *OrderEventRelay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	events, err := r.source.Subscribe(runCtx)
	if err != nil {
		cancel()
		return err
	}
	r.cancel = cancel

	jobs := make([]chan model.OrderEvent, r.workers)
	for i := range jobs {
		jobs[i] = make(chan model.OrderEvent, 16)
		r.wg.Add(1)
		go r.worker(jobs[i])
	}

	r.wg.Add(1)
	go r.dispatch(runCtx, events, jobs)
	return nil
}

// Stop cancels the subscription and waits for all workers to finish.
func (r *OrderEventRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *OrderEventRelay) dispatch(ctx context.Context, events <-chan model.OrderEvent, jobs []chan model.OrderEvent) {
	defer r.wg.Done()
	defer func() {
		for _, ch := range jobs {
			close(ch)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				if ctx.Err() == nil {
					r.logger.Warn("order event subscription closed")
				}
				return
			}
			select {
			case jobs[lane(event, len(jobs))] <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *OrderEventRelay) worker(jobs <-chan model.OrderEvent) {
	defer r.wg.Done()
	for event := range jobs {
		r.sink.Broadcast(event)
		r.logger.Debug("order event relayed",
			slog.String("type", string(event.Type)),
			slog.Int64("order_id", event.OrderID),
		)
	}
}

func lane(event model.OrderEvent, n int) int {
	if event.Type == model.OrderEventCreated {
		return 0
	}
	return partition(event.OrderID, n)
}

func partition(orderID int64, n int) int {
	if orderID < 0 {
		orderID = -orderID
	}
	return int(orderID % int64(n))
}
