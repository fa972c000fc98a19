package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockroom/lockdash/src/models"
)

func newTestRedisStore(t *testing.T) (*RedisPageStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisPageStoreFromClient(client, time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

// pageStores runs fn against every PageStore implementation
func pageStores(t *testing.T, fn func(t *testing.T, store PageStore)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryPageStore(16, time.Minute))
	})
	t.Run("redis", func(t *testing.T) {
		store, _ := newTestRedisStore(t)
		fn(t, store)
	})
}

func TestPageStore_GetSet(t *testing.T) {
	pageStores(t, func(t *testing.T, store PageStore) {
		ctx := context.Background()

		_, ok, err := store.Get(ctx, "keys|1|3|@0")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Set(ctx, "keys|1|3|@0", []byte(`{"data":[]}`)))

		value, ok, err := store.Get(ctx, "keys|1|3|@0")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"data":[]}`, string(value))
	})
}

func TestPageStore_GenerationsArePerEntity(t *testing.T) {
	pageStores(t, func(t *testing.T, store PageStore) {
		ctx := context.Background()

		gen, err := store.Generation(ctx, models.EntityKeys)
		require.NoError(t, err)
		assert.Equal(t, int64(0), gen)

		bumped, err := store.Bump(ctx, models.EntityKeys)
		require.NoError(t, err)
		assert.Equal(t, int64(1), bumped)

		gen, _ = store.Generation(ctx, models.EntityKeys)
		assert.Equal(t, int64(1), gen)

		other, _ := store.Generation(ctx, models.EntityStaffs)
		assert.Equal(t, int64(0), other)
	})
}

func TestMemoryPageStore_BumpDropsEntityPages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPageStore(16, time.Minute)

	_ = store.Set(ctx, "keys|1|3|@0", []byte("a"))
	_ = store.Set(ctx, "keys|2|3|@0", []byte("b"))
	_ = store.Set(ctx, "staffs|1|3|@0", []byte("c"))
	require.Equal(t, 3, store.Len())

	_, err := store.Bump(ctx, models.EntityKeys)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	_, ok, _ := store.Get(ctx, "staffs|1|3|@0")
	assert.True(t, ok)
}

func TestMemoryPageStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPageStore(16, 20*time.Millisecond)

	_ = store.Set(ctx, "keys|1|3|@0", []byte("a"))
	time.Sleep(60 * time.Millisecond)

	_, ok, _ := store.Get(ctx, "keys|1|3|@0")
	assert.False(t, ok)
}

func TestRedisPageStore_TTLAndPing(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Set(ctx, "keys|1|3|@0", []byte("a")))

	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "keys|1|3|@0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPageStore_Unreachable(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, err := store.Generation(context.Background(), models.EntityKeys)
	assert.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}
