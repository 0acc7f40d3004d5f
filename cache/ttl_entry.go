package cache

import "time"

// cacheEntry 缓存中的单个条目
type cacheEntry[V any] struct {
	key       string
	value     V
	createdAt time.Time // 写入（或覆盖）时间
	expiresAt time.Time // createdAt + ttl
}

// isExpired now 到达 expiresAt 即视为过期
func (e *cacheEntry[V]) isExpired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// CacheInfo 条目的诊断信息，RemainingTTL 可能为负数
type CacheInfo struct {
	Exists       bool
	Age          time.Duration
	RemainingTTL time.Duration
}

// Remaining 展示用的剩余时间，负数按0处理
func (i CacheInfo) Remaining() time.Duration {
	if i.RemainingTTL < 0 {
		return 0
	}
	return i.RemainingTTL
}

// Expired 条目存在但已过期，尚未被清理
func (i CacheInfo) Expired() bool {
	return i.Exists && i.RemainingTTL <= 0
}
