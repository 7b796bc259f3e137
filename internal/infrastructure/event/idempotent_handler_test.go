package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// brokenStore fails every idempotency check.
type brokenStore struct{}

func (brokenStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("store unavailable")
}

func (brokenStore) IsProcessed(context.Context, string) (bool, error) {
	return false, errors.New("store unavailable")
}

func (brokenStore) Close() error { return nil }

func newIdempotentFixture(t *testing.T, opts ...IdempotentHandlerOption) (*IdempotentHandler, *recordingHandler) {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	inner := recordingFor("ContractCreated")
	return NewIdempotentHandler(inner, store, zap.NewNop(), opts...), inner
}

func TestIdempotentHandler_FirstDelivery(t *testing.T) {
	handler, inner := newIdempotentFixture(t)
	evt := newStubEvent("ContractCreated", randomScope())

	require.NoError(t, handler.Handle(context.Background(), evt))

	assert.Len(t, inner.events(), 1)
	stats := handler.Metrics().Stats()
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, int64(0), stats.EventsDuplicate)
}

func TestIdempotentHandler_Redelivery(t *testing.T) {
	handler, inner := newIdempotentFixture(t)
	evt := newStubEvent("ContractCreated", randomScope())

	for range 3 {
		require.NoError(t, handler.Handle(context.Background(), evt))
	}

	assert.Len(t, inner.events(), 1)
	stats := handler.Metrics().Stats()
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, int64(2), stats.EventsDuplicate)
}

func TestIdempotentHandler_DistinctEventsAllProcessed(t *testing.T) {
	handler, inner := newIdempotentFixture(t)

	require.NoError(t, handler.Handle(context.Background(), newStubEvent("ContractCreated", randomScope())))
	require.NoError(t, handler.Handle(context.Background(), newStubEvent("ContractCreated", randomScope())))

	assert.Len(t, inner.events(), 2)
	assert.Equal(t, int64(2), handler.Metrics().Stats().EventsProcessed)
}

func TestIdempotentHandler_InnerHandlerError(t *testing.T) {
	handler, inner := newIdempotentFixture(t)
	inner.failWith(errors.New("projection write failed"))
	evt := newStubEvent("ContractCreated", randomScope())

	err := handler.Handle(context.Background(), evt)
	require.EqualError(t, err, "projection write failed")

	stats := handler.Metrics().Stats()
	assert.Equal(t, int64(0), stats.EventsProcessed)
	assert.Equal(t, int64(1), stats.EventsFailed)

	// The key was already claimed, so the retry within the TTL is swallowed
	// as a duplicate.
	inner.failWith(nil)
	require.NoError(t, handler.Handle(context.Background(), evt))
	assert.Equal(t, int64(1), handler.Metrics().Stats().EventsDuplicate)
}

func TestIdempotentHandler_StoreFailureStillProcesses(t *testing.T) {
	inner := recordingFor("ContractCreated")
	handler := NewIdempotentHandler(inner, brokenStore{}, zap.NewNop())
	evt := newStubEvent("ContractCreated", randomScope())

	require.NoError(t, handler.Handle(context.Background(), evt))
	require.NoError(t, handler.Handle(context.Background(), evt))

	// Without a working store there is no duplicate detection.
	assert.Len(t, inner.events(), 2)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	config := shared.DefaultIdempotencyConfig()
	config.Enabled = false

	handler, inner := newIdempotentFixture(t, WithIdempotencyConfig(config))
	evt := newStubEvent("ContractCreated", randomScope())

	for range 3 {
		require.NoError(t, handler.Handle(context.Background(), evt))
	}

	assert.Len(t, inner.events(), 3)
	assert.Equal(t, IdempotencyStats{}, handler.Metrics().Stats())
}

func TestIdempotentHandler_ForwardsEventTypes(t *testing.T) {
	handler, _ := newIdempotentFixture(t)
	assert.Equal(t, []string{"ContractCreated"}, handler.EventTypes())
}

func TestIdempotentHandler_SharedMetrics(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	metrics := &IdempotencyMetrics{}
	first := NewIdempotentHandler(recordingFor("ContractCreated"), store, zap.NewNop(), WithIdempotencyMetrics(metrics))
	second := NewIdempotentHandler(recordingFor("SaleCreated"), store, zap.NewNop(), WithIdempotencyMetrics(metrics))

	require.NoError(t, first.Handle(context.Background(), newStubEvent("ContractCreated", randomScope())))
	require.NoError(t, second.Handle(context.Background(), newStubEvent("SaleCreated", randomScope())))

	assert.Equal(t, int64(2), metrics.Stats().EventsProcessed)
}

func TestIdempotentHandler_ConcurrentRedelivery(t *testing.T) {
	handler, inner := newIdempotentFixture(t)
	evt := newStubEvent("ContractCreated", randomScope())

	const workers = 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, handler.Handle(context.Background(), evt))
		}()
	}
	wg.Wait()

	assert.Len(t, inner.events(), 1)
	stats := handler.Metrics().Stats()
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, int64(workers-1), stats.EventsDuplicate)
}
