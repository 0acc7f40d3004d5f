package loadcache

import (
	"context"
	"errors"
	"time"

	"github.com/magic-lib/go-plat-hotcache/cache"
	"github.com/magic-lib/go-plat-utils/goroutines"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LoadFunc 未命中时的加载函数，返回值、过期时间（<=0 使用默认）以及结果是否为空
type LoadFunc[V any] func(ctx context.Context) (val V, ttl time.Duration, empty bool, err error)

// Options 用于配置加载器的行为和参数。
type Options struct {
	EmptyTTL      time.Duration // 空结果的过期时间，<=0 表示空结果不缓存
	RefreshFactor float64       // 异步刷新触发因子（剩余时间 < ttl*factor 时刷新），<=0 关闭
	Logger        *zap.Logger
}

// Loader 旁路缓存：先查缓存，miss 时用 LoadFunc 加载并回填，同一个key并发只加载一次
type Loader[V any] struct {
	cache         *cache.TTLCache[V]
	group         singleflight.Group
	emptyTTL      time.Duration
	refreshFactor float64
	refreshing    *cache.TTLCache[struct{}]
	logger        *zap.Logger
}

// ErrNilCache 未传入缓存
var ErrNilCache = errors.New("loadcache: cache is nil")

// New 创建加载器
func New[V any](c *cache.TTLCache[V], opt Options) (*Loader[V], error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if opt.RefreshFactor >= 1 {
		opt.RefreshFactor = 0
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &Loader[V]{
		cache:         c,
		emptyTTL:      opt.EmptyTTL,
		refreshFactor: opt.RefreshFactor,
		refreshing: cache.NewTTLCache[struct{}](&cache.TTLCacheOptions{
			Name:       c.Name() + "_refreshing",
			DefaultTTL: c.DefaultTTL(),
		}),
		logger: opt.Logger,
	}, nil
}

// Cache 底层缓存
func (l *Loader[V]) Cache() *cache.TTLCache[V] {
	return l.cache
}

// GetOrLoad 先查缓存，miss 时加载并写入；加载失败不写缓存
func (l *Loader[V]) GetOrLoad(ctx context.Context, key string, fn LoadFunc[V]) (V, error) {
	if val, ok := l.cache.Get(key); ok {
		l.asyncRefresh(key, fn)
		return val, nil
	}

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		return l.load(ctx, key, fn)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	ret, _ := v.(V)
	return ret, nil
}

// Forget 删除缓存，下次访问重新加载；正在进行的加载结果不会再写回
func (l *Loader[V]) Forget(key string) bool {
	l.group.Forget(key)
	return l.cache.Delete(key)
}

// load 加载期间缓存被 Clear 或 Delete 过时，结果只返回不回填
func (l *Loader[V]) load(ctx context.Context, key string, fn LoadFunc[V]) (V, error) {
	gen := l.cache.Generation()
	val, ttl, empty, err := fn(ctx)
	if err != nil {
		return val, err
	}
	if empty {
		if l.emptyTTL <= 0 {
			return val, nil
		}
		ttl = l.emptyTTL
	}
	if !l.cache.SetIfGeneration(key, val, gen, ttl) {
		l.logger.Debug("cache cleared during load, result dropped",
			zap.String("cache", l.cache.Name()), zap.String("key", key))
	}
	return val, nil
}

// asyncRefresh 命中缓存时，剩余时间不足则异步刷新
func (l *Loader[V]) asyncRefresh(key string, fn LoadFunc[V]) {
	if l.refreshFactor <= 0 {
		return
	}
	info := l.cache.GetCacheInfo(key)
	if !info.Exists {
		return
	}
	total := info.Age + info.RemainingTTL
	if info.RemainingTTL >= time.Duration(float64(total)*l.refreshFactor) {
		return
	}
	// 同一个key同时只有一个刷新任务
	if !l.refreshing.SetIfAbsent(key, struct{}{}, total) {
		return
	}
	goroutines.GoAsync(func(params ...any) {
		defer l.refreshing.Delete(key)
		_, err, _ := l.group.Do(key, func() (interface{}, error) {
			return l.load(context.Background(), key, fn)
		})
		if err != nil {
			l.logger.Warn("async refresh failed", zap.String("cache", l.cache.Name()),
				zap.String("key", key), zap.Error(err))
		}
	}, nil)
}
