package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memLruCache[V any] struct {
	lru *expirable.LRU[string, V]
}

// NewMemLruCache 定长LRU缓存，所有条目共用同一个 ttl
func NewMemLruCache[V any](size int, ttl time.Duration) CommCache[V] {
	if size <= 0 {
		size = defaultLruSize
	}
	return &memLruCache[V]{
		lru: expirable.NewLRU[string, V](size, nil, ttl),
	}
}

const defaultLruSize = 1024

// Get 从缓存中取得一个值
func (co *memLruCache[V]) Get(_ context.Context, key string) (V, error) {
	v, _ := co.lru.Get(key)
	return v, nil
}

// Set lru 不支持单条过期时间，timeout 被忽略
func (co *memLruCache[V]) Set(_ context.Context, key string, val V, _ time.Duration) (bool, error) {
	co.lru.Add(key, val)
	return true, nil
}

// Del 从缓存中删除一个key
func (co *memLruCache[V]) Del(_ context.Context, key string) (bool, error) {
	return co.lru.Remove(key), nil
}
