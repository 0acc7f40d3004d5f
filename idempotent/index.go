package idempotent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magic-lib/go-plat-hotcache/cache"
)

const lockValue = "LOCK"

// ErrRepeat 默认的重复请求错误
var ErrRepeat = errors.New("重复请求，请稍后再试")

// Config 幂等配置项
type Config struct {
	Namespace     string
	Cache         *cache.TTLCache[string]
	Expiration    time.Duration // 幂等过期时间
	ErrRepeat     error         // 重复请求的错误提示
	RollbackOnErr bool          // 业务执行失败时是否回滚缓存（删除Key，允许重试）
}

// WithConfig 补全默认配置，Cache 为空时新建一个独立的缓存
func WithConfig(cfg *Config) *Config {
	if cfg == nil {
		cfg = &Config{RollbackOnErr: true}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "idempotent"
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 5 * time.Second
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewTTLCache[string](&cache.TTLCacheOptions{
			Name:       cfg.Namespace,
			DefaultTTL: cfg.Expiration,
		})
	}
	if cfg.ErrRepeat == nil {
		cfg.ErrRepeat = ErrRepeat
	}
	return cfg
}

// Do 执行幂等操作：Expiration 内同一个key只允许执行一次
func (c *Config) Do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	lockKey := fmt.Sprintf("%s:%s", c.Namespace, key)
	if !c.Cache.SetIfAbsent(lockKey, lockValue, c.Expiration) {
		return nil, c.ErrRepeat
	}

	res, err := fn(ctx)
	if err != nil && c.RollbackOnErr {
		c.Cache.Delete(lockKey)
	}
	return res, err
}

// Release 提前释放key
func (c *Config) Release(key string) bool {
	return c.Cache.Delete(fmt.Sprintf("%s:%s", c.Namespace, key))
}
