package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/magic-lib/go-plat-hotcache/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemBackends(t *testing.T) {
	ctx := context.Background()
	backends := map[string]cache.CommCache[string]{
		"go-cache": cache.NewMemGoCache[string](time.Minute, time.Minute),
		"lru":      cache.NewMemLruCache[string](16, time.Minute),
		"fast":     cache.NewFastCache[string](0),
	}
	for name, co := range backends {
		t.Run(name, func(t *testing.T) {
			ok, err := co.Set(ctx, "k", "v", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)

			v, err := co.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v", v)

			ok, err = co.Del(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)

			v, err = co.Get(ctx, "k")
			require.NoError(t, err)
			assert.Empty(t, v)
		})
	}
}

func TestFastCacheExpiry(t *testing.T) {
	ctx := context.Background()
	co := cache.NewFastCache[string](0)
	_, err := co.Set(ctx, "k", "v", 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)

	v, err := co.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestCuckooFilter(t *testing.T) {
	ctx := context.Background()
	f := cache.NewCuckooFilter(1024)

	added, _ := f.Set(ctx, "https://v.douyin.com/abc", true, 0)
	assert.True(t, added)
	added, _ = f.Set(ctx, "https://v.douyin.com/abc", true, 0)
	assert.False(t, added)

	seen, _ := f.Get(ctx, "https://v.douyin.com/abc")
	assert.True(t, seen)

	removed, _ := f.Del(ctx, "https://v.douyin.com/abc")
	assert.True(t, removed)
	seen, _ = f.Get(ctx, "https://v.douyin.com/abc")
	assert.False(t, seen)
}

func TestNewBackend(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []string{cache.BackendGoCache, cache.BackendLru, cache.BackendFastCache} {
		co, err := cache.NewBackend[string](kind, 0, time.Minute)
		require.NoError(t, err, kind)
		require.NotNil(t, co, kind)
		_, err = cache.NsSetStr(ctx, co, "snap", "k", 42, 0)
		require.NoError(t, err, kind)
		v, err := cache.NsGetStr[int](ctx, co, "snap", "k")
		require.NoError(t, err, kind)
		assert.Equal(t, 42, v, kind)

		miss, err := cache.NsGetStr[int](ctx, co, "other", "k")
		require.NoError(t, err, kind)
		assert.Zero(t, miss, kind)
	}

	co, err := cache.NewBackend[string](cache.BackendNone, 0, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, co)

	_, err = cache.NewBackend[string]("redis", 0, time.Minute)
	assert.Error(t, err)
}
