package hotrank

import (
	"context"
	"time"

	"github.com/magic-lib/go-plat-hotcache/cache"
)

// Query 一次榜单查询：平台、tab、筛选条件
type Query struct {
	Platform   Platform
	TabID      string
	FilterType string
}

// CacheKey 例如 kuaishou_hot_live_总榜
func (q Query) CacheKey() string {
	return cache.CreateCacheKey(string(q.Platform), q.TabID, q.FilterType)
}

// RankItem 榜单中的一条内容或账号
type RankItem struct {
	Rank     int            `json:"rank"`
	Title    string         `json:"title"`
	Author   string         `json:"author,omitempty"`
	URL      string         `json:"url,omitempty"`
	HotValue int64          `json:"hot_value"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Ranking 某个平台一次拉取到的榜单
type Ranking struct {
	Platform   Platform   `json:"platform"`
	TabID      string     `json:"tab_id,omitempty"`
	FilterType string     `json:"filter_type,omitempty"`
	Items      []RankItem `json:"items"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// Fetcher 远端统计接口
type Fetcher interface {
	FetchRanking(ctx context.Context, q Query) (*Ranking, error)
}

// FetcherFunc 函数形式的 Fetcher
type FetcherFunc func(ctx context.Context, q Query) (*Ranking, error)

// FetchRanking xxx
func (f FetcherFunc) FetchRanking(ctx context.Context, q Query) (*Ranking, error) {
	return f(ctx, q)
}
