package cache_test

import (
	"testing"
	"time"

	"github.com/magic-lib/go-plat-hotcache/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := cache.NewRegistry[string](nil)
	hot := r.GetOrCreate("hot_rankings", cache.TTLCacheOptions{DefaultTTL: time.Minute, MaxSize: 10})
	same := r.GetOrCreate("hot_rankings", cache.TTLCacheOptions{DefaultTTL: time.Second})
	assert.Same(t, hot, same)
	assert.Equal(t, time.Minute, same.DefaultTTL())
	assert.Equal(t, "hot_rankings", hot.Name())

	search := r.GetOrCreate("search", cache.TTLCacheOptions{})
	hot.Set("douyin_hot", "a")
	search.Set("douyin_hot", "b")

	v, ok := search.Get("douyin_hot")
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, []string{"hot_rankings", "search"}, r.Names())

	r.ClearAll()
	assert.Equal(t, 0, hot.Size())
	assert.Equal(t, 0, search.Size())

	assert.True(t, r.Remove("search"))
	assert.False(t, r.Remove("search"))
	_, ok = r.Get("search")
	assert.False(t, ok)
}
