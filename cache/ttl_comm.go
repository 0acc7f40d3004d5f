package cache

import (
	"context"
	"time"
)

type ttlCommCache[V any] struct {
	c *TTLCache[V]
}

// Comm 以 CommCache 的形式使用TTL缓存，未命中返回零值且不报错
func (c *TTLCache[V]) Comm() CommCache[V] {
	return &ttlCommCache[V]{c: c}
}

// Get 从缓存中取得一个值
func (co *ttlCommCache[V]) Get(_ context.Context, key string) (V, error) {
	v, _ := co.c.Get(key)
	return v, nil
}

// Set timeout<=0 时使用默认过期时间
func (co *ttlCommCache[V]) Set(_ context.Context, key string, val V, timeout time.Duration) (bool, error) {
	co.c.Set(key, val, timeout)
	return true, nil
}

// Del 从缓存中删除一个key
func (co *ttlCommCache[V]) Del(_ context.Context, key string) (bool, error) {
	return co.c.Delete(key), nil
}
