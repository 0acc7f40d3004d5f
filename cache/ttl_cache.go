package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const defaultTTL = 5 * time.Minute

// TTLCacheOptions TTL缓存的构造参数，构造后不可修改
type TTLCacheOptions struct {
	Name       string        // 缓存名称，用于日志与监控
	DefaultTTL time.Duration // 默认过期时间，<=0 时使用5分钟
	MaxSize    int           // 最大条目数，<=0 表示不限制
	Clock      clock.Clock   // 时钟，测试时可替换
	Logger     *zap.Logger
	Metrics    *Metrics
}

// TTLCache 带过期时间和条目上限的本地缓存
type TTLCache[V any] struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List // 按首次写入顺序排列
	name       string
	defaultTTL time.Duration
	maxSize    int
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *Metrics
	gen        uint64 // Delete/Clear 次数
}

// NewTTLCache 新建TTL缓存
func NewTTLCache[V any](opt *TTLCacheOptions) *TTLCache[V] {
	if opt == nil {
		opt = &TTLCacheOptions{}
	}
	c := &TTLCache[V]{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		name:       opt.Name,
		defaultTTL: opt.DefaultTTL,
		maxSize:    opt.MaxSize,
		clock:      opt.Clock,
		logger:     opt.Logger,
		metrics:    opt.Metrics,
	}
	if c.name == "" {
		c.name = "default"
	}
	if c.defaultTTL <= 0 {
		c.defaultTTL = defaultTTL
	}
	if c.maxSize < 0 {
		c.maxSize = 0
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Name 缓存名称
func (c *TTLCache[V]) Name() string {
	return c.name
}

// DefaultTTL 构造时确定的默认过期时间
func (c *TTLCache[V]) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Set 写入缓存，已存在的key会被整体覆盖，ttl 只对本条目生效
func (c *TTLCache[V]) Set(key string, val V, ttl ...time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, val, c.ttlOf(ttl))
}

// SetIfAbsent key不存在（或已过期）时才写入，返回是否写入成功
func (c *TTLCache[V]) SetIfAbsent(key string, val V, ttl ...time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lookupLocked(key); ok {
		return false
	}
	c.setLocked(key, val, c.ttlOf(ttl))
	return true
}

// Generation 每次 Delete 或 Clear 后递增
func (c *TTLCache[V]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration 只有 gen 之后没有发生过 Delete/Clear 才写入，用于丢弃清理前发起的加载结果
func (c *TTLCache[V]) SetIfGeneration(key string, val V, gen uint64, ttl ...time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.setLocked(key, val, c.ttlOf(ttl))
	return true
}

// Get 获取缓存，过期的条目会被顺带删除
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.lookupLocked(key)
	if !ok {
		c.metrics.miss(c.name)
		var zero V
		return zero, false
	}
	c.metrics.hit(c.name)
	return ent.value, true
}

// Has 是否存在未过期的key，与 Get 一样会删除过期条目
func (c *TTLCache[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete 删除key，返回是否真的删除了条目
func (c *TTLCache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	ele, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeLocked(ele)
	return true
}

// Clear 清空全部条目
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.metrics.setEntries(c.name, 0)
}

// GetCacheInfo 查看条目状态，不触发过期删除
func (c *TTLCache[V]) GetCacheInfo(key string) CacheInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, ok := c.items[key]
	if !ok {
		return CacheInfo{}
	}
	ent := ele.Value.(*cacheEntry[V])
	now := c.clock.Now()
	return CacheInfo{
		Exists:       true,
		Age:          now.Sub(ent.createdAt),
		RemainingTTL: ent.expiresAt.Sub(now),
	}
}

// Keys 先清理全部过期条目，再按写入顺序返回key
func (c *TTLCache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictExpired()
	keys := make([]string, 0, len(c.items))
	for ele := c.order.Front(); ele != nil; ele = ele.Next() {
		keys = append(keys, ele.Value.(*cacheEntry[V]).key)
	}
	return keys
}

// Size 先清理全部过期条目，再返回条目数
func (c *TTLCache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictExpired()
	return len(c.items)
}

func (c *TTLCache[V]) ttlOf(ttl []time.Duration) time.Duration {
	if len(ttl) > 0 && ttl[0] > 0 {
		return ttl[0]
	}
	return c.defaultTTL
}

func (c *TTLCache[V]) setLocked(key string, val V, ttl time.Duration) {
	now := c.clock.Now()
	ent := &cacheEntry[V]{
		key:       key,
		value:     val,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	if ele, ok := c.items[key]; ok {
		ele.Value = ent
		return
	}
	c.items[key] = c.order.PushBack(ent)
	if c.maxSize > 0 && len(c.items) > c.maxSize {
		c.evictOldest()
	}
	c.metrics.setEntries(c.name, len(c.items))
}

// lookupLocked 单个key的惰性过期
func (c *TTLCache[V]) lookupLocked(key string) (*cacheEntry[V], bool) {
	ele, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := ele.Value.(*cacheEntry[V])
	if ent.isExpired(c.clock.Now()) {
		c.removeLocked(ele)
		c.metrics.expire(c.name, 1)
		return nil, false
	}
	return ent, true
}

func (c *TTLCache[V]) removeLocked(ele *list.Element) {
	ent := ele.Value.(*cacheEntry[V])
	delete(c.items, ent.key)
	c.order.Remove(ele)
	c.metrics.setEntries(c.name, len(c.items))
}

// evictExpired 删除全部已过期条目
func (c *TTLCache[V]) evictExpired() {
	now := c.clock.Now()
	removed := 0
	for ele := c.order.Front(); ele != nil; {
		next := ele.Next()
		if ele.Value.(*cacheEntry[V]).isExpired(now) {
			c.removeLocked(ele)
			removed++
		}
		ele = next
	}
	if removed > 0 {
		c.metrics.expire(c.name, removed)
		c.logger.Debug("expired entries swept", zap.String("cache", c.name), zap.Int("count", removed))
	}
}

// evictOldest 删除 createdAt 最早的一个条目，相同时先写入的先删
func (c *TTLCache[V]) evictOldest() {
	var oldest *list.Element
	for ele := c.order.Front(); ele != nil; ele = ele.Next() {
		if oldest == nil || ele.Value.(*cacheEntry[V]).createdAt.Before(oldest.Value.(*cacheEntry[V]).createdAt) {
			oldest = ele
		}
	}
	if oldest == nil {
		return
	}
	key := oldest.Value.(*cacheEntry[V]).key
	c.removeLocked(oldest)
	c.metrics.evict(c.name)
	c.logger.Debug("oldest entry evicted", zap.String("cache", c.name), zap.String("key", key),
		zap.Int("maxSize", c.maxSize))
}
