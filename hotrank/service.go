package hotrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magic-lib/go-plat-hotcache/cache"
	loadcache "github.com/magic-lib/go-plat-hotcache/cache/load-cache"
	"github.com/magic-lib/go-plat-hotcache/idempotent"
	"go.uber.org/zap"
)

// ErrRefreshTooFrequent 同一个榜单刷新过于频繁
var ErrRefreshTooFrequent = errors.New("hotrank: refresh too frequent")

// ErrNilFetcher 未传入 Fetcher
var ErrNilFetcher = errors.New("hotrank: fetcher is nil")

const snapshotNs = "hotrank_snapshot"

// Options Service 的可选参数
type Options struct {
	Loader       loadcache.Options
	RefreshGuard time.Duration // 同一个榜单两次手动刷新的最小间隔，<=0 不限制
	Logger       *zap.Logger

	// Snapshot 保存每个榜单最近一次成功的结果，远端失败时返回该结果
	Snapshot    cache.CommCache[string]
	SnapshotTTL time.Duration // 快照在 Snapshot 中的保存时间，<=0 由 Snapshot 决定
	StaleTTL    time.Duration // 快照回填到榜单缓存的时间，<=0 使用缓存默认值
}

// Service 看板各榜单页面共用的数据服务
type Service struct {
	fetcher  Fetcher
	loader   *loadcache.Loader[*Ranking]
	guard    *idempotent.Config
	logger   *zap.Logger
	snapshot cache.CommCache[string]
	snapTTL  time.Duration
	staleTTL time.Duration
}

// NewService rankings 由调用方创建，一般是注册表中的 "hot_rankings"
func NewService(rankings *cache.TTLCache[*Ranking], fetcher Fetcher, opt Options) (*Service, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	if opt.Loader.Logger == nil {
		opt.Loader.Logger = opt.Logger
	}
	loader, err := loadcache.New(rankings, opt.Loader)
	if err != nil {
		return nil, err
	}
	s := &Service{
		fetcher:  fetcher,
		loader:   loader,
		logger:   opt.Logger,
		snapshot: opt.Snapshot,
		snapTTL:  opt.SnapshotTTL,
		staleTTL: opt.StaleTTL,
	}
	if opt.RefreshGuard > 0 {
		s.guard = idempotent.WithConfig(&idempotent.Config{
			Namespace:     "hotrank_refresh",
			Expiration:    opt.RefreshGuard,
			ErrRepeat:     ErrRefreshTooFrequent,
			RollbackOnErr: true,
		})
	}
	return s, nil
}

// Ranking 获取榜单，命中缓存时不访问远端
func (s *Service) Ranking(ctx context.Context, q Query) (*Ranking, error) {
	q, err := normalize(q)
	if err != nil {
		return nil, err
	}
	key := q.CacheKey()
	return s.loader.GetOrLoad(ctx, key, func(ctx context.Context) (*Ranking, time.Duration, bool, error) {
		start := time.Now()
		r, err := s.fetcher.FetchRanking(ctx, q)
		if err != nil {
			s.logger.Warn("fetch ranking failed", zap.String("key", key), zap.Error(err))
			if stale := s.loadSnapshot(ctx, key); stale != nil {
				return stale, s.staleTTL, false, nil
			}
			return nil, 0, false, fmt.Errorf("fetch %s: %w", key, err)
		}
		empty := r == nil || len(r.Items) == 0
		s.logger.Debug("ranking fetched", zap.String("key", key), zap.Bool("empty", empty),
			zap.Duration("elapsed", time.Since(start)))
		if !empty {
			s.saveSnapshot(ctx, key, r)
		}
		return r, 0, empty, nil
	})
}

func (s *Service) saveSnapshot(ctx context.Context, key string, r *Ranking) {
	if s.snapshot == nil {
		return
	}
	if _, err := cache.NsSetStr(ctx, s.snapshot, snapshotNs, key, *r, s.snapTTL); err != nil {
		s.logger.Warn("save ranking snapshot failed", zap.String("key", key), zap.Error(err))
	}
}

// loadSnapshot 没有快照时返回 nil
func (s *Service) loadSnapshot(ctx context.Context, key string) *Ranking {
	if s.snapshot == nil {
		return nil
	}
	r, err := cache.NsGetStr[Ranking](ctx, s.snapshot, snapshotNs, key)
	if err != nil {
		s.logger.Warn("read ranking snapshot failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if len(r.Items) == 0 {
		return nil
	}
	s.logger.Info("serving stale ranking snapshot", zap.String("key", key), zap.Time("fetchedAt", r.FetchedAt))
	return &r
}

// Refresh 丢弃缓存并重新拉取
func (s *Service) Refresh(ctx context.Context, q Query) (*Ranking, error) {
	q, err := normalize(q)
	if err != nil {
		return nil, err
	}
	if s.guard == nil {
		return s.refresh(ctx, q)
	}
	res, err := s.guard.Do(ctx, q.CacheKey(), func(ctx context.Context) (any, error) {
		return s.refresh(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	r, _ := res.(*Ranking)
	return r, nil
}

func (s *Service) refresh(ctx context.Context, q Query) (*Ranking, error) {
	s.loader.Forget(q.CacheKey())
	return s.Ranking(ctx, q)
}

// ClearCache 看板菜单中的“清除缓存”
func (s *Service) ClearCache() {
	s.loader.Cache().Clear()
	s.logger.Info("hot ranking cache cleared")
}

// CachedKeys 当前有效的缓存key
func (s *Service) CachedKeys() []string {
	return s.loader.Cache().Keys()
}

// Info 榜单缓存状态
func (s *Service) Info(q Query) cache.CacheInfo {
	if n, err := normalize(q); err == nil {
		q = n
	}
	return s.loader.Cache().GetCacheInfo(q.CacheKey())
}

func normalize(q Query) (Query, error) {
	p, err := ParsePlatform(string(q.Platform))
	if err != nil {
		return q, err
	}
	q.Platform = p
	return q, nil
}
