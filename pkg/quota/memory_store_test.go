package quota_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Cleareds/plantspack-sub002/pkg/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SequenceWithinWindow(t *testing.T) {
	now := time.Unix(1740730536, 0)
	store := quota.NewMemoryStore(&quota.MemoryStoreOpts{
		TimeProvider: func() time.Time { return now },
	})
	defer store.Close()

	ctx := context.Background()

	for i, wantRemaining := range []int64{2, 1, 0} {
		decision, err := store.CheckAndIncrement(ctx, "u1", "post_creation", 3, 60*time.Second)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "call %d", i+1)
		assert.Equal(t, int64(i+1), decision.Current)
		assert.Equal(t, wantRemaining, decision.Remaining)
	}

	decision, err := store.CheckAndIncrement(ctx, "u1", "post_creation", 3, 60*time.Second)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, int64(0), decision.Remaining)
	assert.LessOrEqual(t, decision.ResetIn, 60*time.Second)

	// Advancing past the window starts a fresh counter.
	now = now.Add(61 * time.Second)
	decision, err = store.CheckAndIncrement(ctx, "u1", "post_creation", 3, 60*time.Second)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, int64(1), decision.Current)
}

func TestMemoryStore_ConcurrentChecksSeeDistinctCounts(t *testing.T) {
	store := quota.NewMemoryStore(nil)
	defer store.Close()

	const n = 50
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		currents = make(map[int64]bool, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := store.CheckAndIncrement(ctx, "u1", "post_creation", n, time.Minute)
			assert.NoError(t, err)
			assert.True(t, decision.Allowed)
			mu.Lock()
			currents[decision.Current] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, currents, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, currents[i], "missing current value %d", i)
	}
}

func TestMemoryStore_KeysAreScopedByAction(t *testing.T) {
	store := quota.NewMemoryStore(nil)
	defer store.Close()

	ctx := context.Background()
	_, err := store.CheckAndIncrement(ctx, "u1", "post_creation", 1, time.Minute)
	require.NoError(t, err)

	decision, err := store.CheckAndIncrement(ctx, "u1", "comment_creation", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, int64(1), decision.Current)
}

func TestMemoryStore_SweepEvictsExpiredBuckets(t *testing.T) {
	now := time.Unix(1740730536, 0)
	var mu sync.Mutex
	current := now
	store := quota.NewMemoryStore(&quota.MemoryStoreOpts{
		TimeProvider: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return current
		},
		SweepInterval: 10 * time.Millisecond,
	})
	defer store.Close()

	ctx := context.Background()
	_, err := store.CheckAndIncrement(ctx, "u1", "post_creation", 3, time.Second)
	require.NoError(t, err)

	mu.Lock()
	current = current.Add(2 * time.Second)
	mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	// A fresh window after the sweep; the count restarts either way, the
	// sweep only bounds memory.
	decision, err := store.CheckAndIncrement(ctx, "u1", "post_creation", 3, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), decision.Current)
}
