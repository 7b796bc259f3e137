package event

import (
	"context"
	"sync/atomic"

	"github.com/fitdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyMetrics counts first-time, duplicate and failed deliveries.
type IdempotencyMetrics struct {
	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// IdempotencyStats is a point-in-time snapshot of IdempotencyMetrics.
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

func (m *IdempotencyMetrics) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: m.processed.Load(),
		EventsDuplicate: m.duplicate.Load(),
		EventsFailed:    m.failed.Load(),
	}
}

// IdempotentHandler decorates an EventHandler so that a redelivered event is
// acknowledged without running the inner handler again. Delivery state is
// tracked per event ID in an IdempotencyStore.
type IdempotentHandler struct {
	inner   shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger
	metrics *IdempotencyMetrics
}

type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig overrides the default idempotency configuration.
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) { h.config = config }
}

// WithIdempotencyMetrics shares one metrics instance across handlers.
func WithIdempotencyMetrics(metrics *IdempotencyMetrics) IdempotentHandlerOption {
	return func(h *IdempotentHandler) { h.metrics = metrics }
}

func NewIdempotentHandler(
	inner shared.EventHandler,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	h := &IdempotentHandler{
		inner:   inner,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		logger:  logger,
		metrics: &IdempotencyMetrics{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)

func (h *IdempotentHandler) EventTypes() []string {
	return h.inner.EventTypes()
}

// Metrics returns the counters recorded by this handler.
func (h *IdempotentHandler) Metrics() *IdempotencyMetrics {
	return h.metrics
}

func (h *IdempotentHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.inner.Handle(ctx, evt)
	}

	eventID := evt.EventID().String()
	fields := []zap.Field{
		zap.String("event_id", eventID),
		zap.String("event_type", evt.EventType()),
	}

	isNew, err := h.store.MarkProcessed(ctx, eventID, h.config.TTL)
	switch {
	case err != nil:
		// An unreachable store must not drop events; the handler runs anyway
		// and accepts the chance of a duplicate.
		h.logger.Warn("idempotency check failed, processing anyway", append(fields, zap.Error(err))...)
	case !isNew:
		h.metrics.duplicate.Add(1)
		h.logger.Debug("duplicate event skipped", fields...)
		return nil
	}

	if err := h.inner.Handle(ctx, evt); err != nil {
		// The idempotency key stays in the store until its TTL expires, so a
		// failed event is not retried before the cooldown.
		h.metrics.failed.Add(1)
		h.logger.Error("event handler failed", append(fields, zap.Error(err))...)
		return err
	}

	h.metrics.processed.Add(1)
	return nil
}
