package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *InMemoryIdempotencyStore {
	t.Helper()
	store := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInMemoryIdempotencyStore_FirstClaimWins(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	claimed, err := store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, claimed)

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_UnknownKey(t *testing.T) {
	store := newStore(t)

	processed, err := store.IsProcessed(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_ExpiredClaimCanBeRetaken(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	claimed, err := store.MarkProcessed(ctx, "evt-1", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, claimed)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, processed)

	claimed, err = store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestInMemoryIdempotencyStore_EvictExpired(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "stale-1", 10*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "stale-2", 10*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "live", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.evictExpired()

	assert.Equal(t, 1, store.Size())
	processed, err := store.IsProcessed(ctx, "live")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	const workers = 100
	results := make(chan bool, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.MarkProcessed(ctx, "contested", time.Hour)
			results <- err == nil && claimed
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for claimed := range results {
		if claimed {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
