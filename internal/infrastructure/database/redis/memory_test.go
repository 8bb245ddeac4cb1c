package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaarke/workspace-engine/pkg/errors"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	in := testAggregate{TotalSpend: 42000, Matters: 7}
	require.NoError(t, c.Set(ctx, "portfolio:u1", in, time.Minute))

	var out testAggregate
	require.NoError(t, c.Get(ctx, "portfolio:u1", &out))
	assert.Equal(t, in, out)
}

func TestMemoryCache_MissAndDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var out testAggregate
	assert.ErrorIs(t, c.Get(ctx, "absent", &out), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", testAggregate{}, 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	now := time.Now()
	c := &memoryCache{
		entries: make(map[string]memoryEntry),
		now:     func() time.Time { return now },
	}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", testAggregate{Matters: 1}, 15*time.Minute))

	var out testAggregate
	require.NoError(t, c.Get(ctx, "k", &out))

	now = now.Add(15*time.Minute + time.Second)
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)
}

func TestMemoryCache_GetOrSet_LoadsOncePerKey(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var calls int32
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return testAggregate{TotalSpend: 9, Matters: 3}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out testAggregate
			assert.NoError(t, c.GetOrSet(ctx, "k", &out, time.Minute, loader))
			assert.Equal(t, 3, out.Matters)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2),
		"concurrent callers should collapse onto few loads")

	var out testAggregate
	require.NoError(t, c.GetOrSet(ctx, "k", &out, time.Minute, loader))
	assert.Equal(t, testAggregate{TotalSpend: 9, Matters: 3}, out)
}

func TestMemoryCache_GetOrSet_LoaderErrorNotCached(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	boom := errors.Internal("snapshot failed")
	var out testAggregate
	err := c.GetOrSet(ctx, "k", &out, time.Minute, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, c.GetOrSet(ctx, "k", &out, time.Minute, func(context.Context) (interface{}, error) {
		return testAggregate{Matters: 2}, nil
	}))
	assert.Equal(t, 2, out.Matters)
}
