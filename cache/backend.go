package cache

import (
	"fmt"
	"time"
)

// 可选的内存后端
const (
	BackendNone      = ""
	BackendGoCache   = "go-cache"
	BackendLru       = "lru"
	BackendFastCache = "fastcache"
)

// NewBackend 按名称创建内存后端；size 对 lru 是条目数，对 fastcache 是字节数，go-cache 忽略
func NewBackend[V any](kind string, size int, ttl time.Duration) (CommCache[V], error) {
	switch kind {
	case BackendNone:
		return nil, nil
	case BackendGoCache:
		return NewMemGoCache[V](ttl, ttl), nil
	case BackendLru:
		return NewMemLruCache[V](size, ttl), nil
	case BackendFastCache:
		return NewFastCache[V](size), nil
	}
	return nil, fmt.Errorf("cache: unknown backend %q", kind)
}
