package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/server/http/dto"
)

const replayBatch = 200

// StreamHandler pushes order events to admin dashboards over SSE.
type StreamHandler struct {
	facade    StreamFacade
	keepAlive time.Duration
	logger    *slog.Logger
}

// NewStreamHandler constructs StreamHandler. A non-positive keepAlive disables heartbeats.
func NewStreamHandler(facade StreamFacade, keepAlive time.Duration, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{facade: facade, keepAlive: keepAlive, logger: logger}
}

// Orders handles GET /api/orders/stream.
func (h *StreamHandler) Orders(c *gin.Context) {
	after, err := streamCursor(c)
	if err != nil {
		badRequest(c, "after must be a non-negative integer")
		return
	}
	ctx := c.Request.Context()
	caller := CurrentCaller(c)

	// Subscribe before replaying so nothing inserted in between is missed.
	live, unsubscribe := h.facade.SubscribeOrders()
	defer unsubscribe()

	backlog, err := h.facade.ReplayOrders(ctx, caller, after, replayBatch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", sse.ContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	stream := &orderStream{c: c, sent: make(map[int64]struct{}), cursor: after}
	if err := h.drain(ctx, caller, stream, backlog); err != nil {
		h.logger.Error("stream replay failed", slog.String("error", err.Error()))
		return
	}

	var tick <-chan time.Time
	if h.keepAlive > 0 {
		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-live:
			if !ok {
				return
			}
			// A created event past the next id means earlier orders may still
			// be in flight; read them from storage so the cursor never skips one.
			if event.Type == model.OrderEventCreated && event.OrderID > stream.cursor+1 {
				if err := h.catchUp(ctx, caller, stream); err != nil {
					h.logger.Error("stream catch-up failed", slog.String("error", err.Error()))
					return
				}
			}
			stream.send(event)
		case <-tick:
			if _, err := io.WriteString(c.Writer, ": keep-alive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// drain sends backlog and keeps paging until storage returns a short batch.
func (h *StreamHandler) drain(ctx context.Context, caller model.Caller, stream *orderStream, backlog []model.Order) error {
	for {
		for _, order := range backlog {
			stream.send(model.NewOrderEvent(model.OrderEventCreated, order))
		}
		if len(backlog) < replayBatch {
			return nil
		}
		var err error
		if backlog, err = h.facade.ReplayOrders(ctx, caller, stream.cursor, replayBatch); err != nil {
			return err
		}
	}
}

func (h *StreamHandler) catchUp(ctx context.Context, caller model.Caller, stream *orderStream) error {
	backlog, err := h.facade.ReplayOrders(ctx, caller, stream.cursor, replayBatch)
	if err != nil {
		return err
	}
	return h.drain(ctx, caller, stream, backlog)
}

// orderStream tracks what one connection has seen. cursor is the highest
// created id sent and is what every SSE id carries, so Last-Event-ID never
// moves backwards when a late event arrives.
type orderStream struct {
	c      *gin.Context
	sent   map[int64]struct{}
	cursor int64
}

func (s *orderStream) send(event model.OrderEvent) {
	msg := sse.Event{Event: string(event.Type), Data: toOrderEventResponse(event)}
	if event.Type == model.OrderEventCreated {
		if _, dup := s.sent[event.OrderID]; dup {
			return
		}
		s.sent[event.OrderID] = struct{}{}
		if event.OrderID > s.cursor {
			s.cursor = event.OrderID
		}
		msg.Id = strconv.FormatInt(s.cursor, 10)
	}
	s.c.Render(-1, msg)
	s.c.Writer.Flush()
}

func streamCursor(c *gin.Context) (int64, error) {
	raw := c.Query("after")
	if raw == "" {
		raw = c.GetHeader("Last-Event-ID")
	}
	if raw == "" {
		return 0, nil
	}
	after, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || after < 0 {
		return 0, strconv.ErrSyntax
	}
	return after, nil
}

func toOrderEventResponse(event model.OrderEvent) dto.OrderEventResponse {
	return dto.OrderEventResponse{
		Type:        string(event.Type),
		OrderID:     event.OrderID,
		OrderNumber: event.OrderNumber,
		UserName:    event.UserName,
		TableNumber: event.TableNumber,
		TotalPrice:  event.TotalPrice,
		Status:      string(event.Status),
		OccurredAt:  event.OccurredAt,
	}
}
