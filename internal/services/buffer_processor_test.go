package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasktracker/internal/infrastructure/buffer"
	"github.com/fastygo/tasktracker/repository/memory"
)

type cacheHealth bool

func (c cacheHealth) IsCacheOnline() bool { return bool(c) }

type flakyCache struct {
	*memory.Cache
	err   error
	calls []string
}

func (f *flakyCache) InvalidateByPrefix(ctx context.Context, prefix string) error {
	f.calls = append(f.calls, prefix)
	if f.err != nil {
		return f.err
	}
	return f.Cache.InvalidateByPrefix(ctx, prefix)
}

func newProcessor(t *testing.T, online bool, cache *flakyCache, maxRetries int) (*BufferProcessor, *buffer.Store) {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	bp := NewBufferProcessor(store, cacheHealth(online), cache, nil, ProcessorConfig{
		Interval:   time.Hour,
		MaxRetries: maxRetries,
	})
	return bp, store
}

func TestDrain_ReplaysInvalidations(t *testing.T) {
	ctx := context.Background()
	cache := &flakyCache{Cache: memory.NewCache()}
	require.NoError(t, cache.Set(ctx, "tasks:u1:status:all:sort:createdAt:order:desc", []byte("[]"), 0))
	require.NoError(t, cache.Set(ctx, "tasks:u2:status:all:sort:createdAt:order:desc", []byte("[]"), 0))

	bp, _ := newProcessor(t, true, cache, 3)
	bridge := NewBufferBridge(bp)
	require.NoError(t, bridge.BufferInvalidation(ctx, "tasks:u1:"))
	assert.Equal(t, 1, bp.Size())

	require.NoError(t, bp.Drain(ctx))

	assert.Zero(t, bp.Size())
	assert.Equal(t, []string{"tasks:u1:"}, cache.calls)
	assert.Equal(t, 1, cache.Len(), "only the journaled owner is dropped")
}

func TestDrain_SkipsWhileCacheOffline(t *testing.T) {
	ctx := context.Background()
	cache := &flakyCache{Cache: memory.NewCache()}
	bp, _ := newProcessor(t, false, cache, 3)

	require.NoError(t, bp.BufferInvalidation(ctx, "tasks:u1:"))
	require.NoError(t, bp.Drain(ctx))

	assert.Equal(t, 1, bp.Size())
	assert.Empty(t, cache.calls)
}

func TestDrain_DropsAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	cache := &flakyCache{Cache: memory.NewCache(), err: errors.New("still down")}
	bp, store := newProcessor(t, true, cache, 2)

	require.NoError(t, bp.BufferInvalidation(ctx, "tasks:u1:"))

	require.NoError(t, bp.Drain(ctx))
	items, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Retries)

	require.NoError(t, bp.Drain(ctx))
	assert.Zero(t, bp.Size())
	assert.Len(t, cache.calls, 2)
}

func TestDrain_DropsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	cache := &flakyCache{Cache: memory.NewCache()}
	bp, store := newProcessor(t, false, cache, 3)

	require.NoError(t, store.Enqueue(buffer.Item{Prefix: "tasks:old:", Timestamp: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, bp.Drain(ctx))

	assert.Zero(t, bp.Size())
}

func TestBufferBridge_RejectsEmptyPrefix(t *testing.T) {
	assert.Error(t, NewBufferBridge(nil).BufferInvalidation(context.Background(), "tasks:u1:"))

	bp, _ := newProcessor(t, true, &flakyCache{Cache: memory.NewCache()}, 1)
	assert.Error(t, NewBufferBridge(bp).BufferInvalidation(context.Background(), ""))
}
