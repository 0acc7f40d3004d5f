package cache

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Registry 具名缓存实例的注册表，由应用启动时创建并显式传递
type Registry[V any] struct {
	caches  cmap.ConcurrentMap[string, *TTLCache[V]]
	metrics *Metrics
}

// NewRegistry 创建注册表，metrics 会注入到之后创建的每个缓存
func NewRegistry[V any](metrics *Metrics) *Registry[V] {
	return &Registry[V]{
		caches:  cmap.New[*TTLCache[V]](),
		metrics: metrics,
	}
}

// GetOrCreate 获取名称对应的缓存，不存在则按 opt 创建；已存在时忽略 opt
func (r *Registry[V]) GetOrCreate(name string, opt TTLCacheOptions) *TTLCache[V] {
	opt.Name = name
	if opt.Metrics == nil {
		opt.Metrics = r.metrics
	}
	return r.caches.Upsert(name, nil, func(exist bool, valueInMap *TTLCache[V], _ *TTLCache[V]) *TTLCache[V] {
		if exist {
			return valueInMap
		}
		return NewTTLCache[V](&opt)
	})
}

// Get xxx
func (r *Registry[V]) Get(name string) (*TTLCache[V], bool) {
	return r.caches.Get(name)
}

// Remove 移除并清空缓存
func (r *Registry[V]) Remove(name string) bool {
	c, ok := r.caches.Pop(name)
	if ok {
		c.Clear()
	}
	return ok
}

// ClearAll 清空全部缓存，实例保留
func (r *Registry[V]) ClearAll() {
	r.caches.IterCb(func(_ string, c *TTLCache[V]) {
		c.Clear()
	})
}

// Names 已注册的缓存名称，按字典序
func (r *Registry[V]) Names() []string {
	names := r.caches.Keys()
	sort.Strings(names)
	return names
}
