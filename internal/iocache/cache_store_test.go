package iocache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KrishalDhungana/NBAMind/schema"
)

func TestSQLiteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "payloads.db")

	store, err := NewCacheStore("payloads", schema.SQLiteBackend, dbPath)
	assert.NoError(t, err, "sqlite store should initialize in a temp dir")
	defer func() { _ = store.Close() }()

	t.Run("miss before set", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "absent")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		assert.NoError(t, store.Set(ctx, "k1", []byte(`{"resultSets":[]}`)))
		payload, ok, err := store.Get(ctx, "k1")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`{"resultSets":[]}`), payload)
	})

	t.Run("set overwrites", func(t *testing.T) {
		assert.NoError(t, store.Set(ctx, "k1", []byte("v2")))
		payload, ok, err := store.Get(ctx, "k1")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v2"), payload)
	})

	t.Run("count", func(t *testing.T) {
		assert.NoError(t, store.Set(ctx, "k2", []byte("v")))
		count, err := store.Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("delete", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "k1"))
		_, ok, err := store.Get(ctx, "k1")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		assert.NoError(t, store.Clear(ctx))
		count, err := store.Count(ctx)
		assert.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestNoneBackendNeverHits(t *testing.T) {
	ctx := context.Background()
	store, err := NewCacheStore("payloads", schema.NoneBackend, "")
	assert.NoError(t, err)

	assert.NoError(t, store.Set(ctx, "k", []byte("v")))
	_, ok, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok, "the none backend is a black hole")

	count, err := store.Count(ctx)
	assert.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, store.Clear(ctx))
	assert.NoError(t, store.Close())
}

func TestNewCacheStoreValidation(t *testing.T) {
	_, err := NewCacheStore("payloads; DROP TABLE", schema.SQLiteBackend, "")
	assert.Error(t, err, "table names are interpolated and must be validated")

	_, err = NewCacheStore("payloads", schema.DatabaseBackend("redis"), "")
	assert.Error(t, err)
}
