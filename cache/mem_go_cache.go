package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memGoCache[V any] struct {
	mCache *gocache.Cache
}

// NewMemGoCache 基于 go-cache 的本地缓存，过期条目由后台协程按 cleanupInterval 清理
func NewMemGoCache[V any](defaultExpiration, cleanupInterval time.Duration) CommCache[V] {
	return &memGoCache[V]{
		mCache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get 从缓存中取得一个值
func (co *memGoCache[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	ret, ok := co.mCache.Get(key)
	if !ok {
		return zero, nil
	}
	if v, ok := ret.(V); ok {
		return v, nil
	}
	return zero, nil
}

// Set timeout<=0 时使用默认过期时间
func (co *memGoCache[V]) Set(_ context.Context, key string, val V, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		timeout = gocache.DefaultExpiration
	}
	co.mCache.Set(key, val, timeout)
	return true, nil
}

// Del 从缓存中删除一个key
func (co *memGoCache[V]) Del(_ context.Context, key string) (bool, error) {
	_, found := co.mCache.Get(key)
	co.mCache.Delete(key)
	return found, nil
}
