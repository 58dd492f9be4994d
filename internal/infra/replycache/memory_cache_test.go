package replycache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/uphill-chatbot/internal/domain/chat"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache(4)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	reply := chat.CachedReply{Key: "k1", EntryID: "net_income", Result: 32000, Reply: "You net $32,000."}
	require.NoError(t, cache.Put(ctx, reply, 0))

	got, ok, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, reply, got)
}

func TestMemoryCacheExpires(t *testing.T) {
	cache := NewMemoryCache(4)
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, chat.CachedReply{Key: "k", Reply: "r"}, time.Minute))
	_, ok, _ := cache.Get(ctx, "k")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = cache.Get(ctx, "k")
	require.False(t, ok)
	require.Zero(t, cache.size())
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	cache := NewMemoryCache(2)
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, chat.CachedReply{Key: "a", Reply: "1"}, 0))
	require.NoError(t, cache.Put(ctx, chat.CachedReply{Key: "b", Reply: "2"}, 0))
	require.NoError(t, cache.Put(ctx, chat.CachedReply{Key: "c", Reply: "3"}, 0))

	require.Equal(t, 2, cache.size())
	_, ok, _ := cache.Get(ctx, "a")
	require.False(t, ok)
	_, ok, _ = cache.Get(ctx, "c")
	require.True(t, ok)
}

func TestMemoryCacheIgnoresEmptyKey(t *testing.T) {
	cache := NewMemoryCache(0)
	require.NoError(t, cache.Put(context.Background(), chat.CachedReply{Reply: "x"}, 0))
	require.Zero(t, cache.size())
	require.Equal(t, defaultMaxEntries, cache.maxEntries)
}
