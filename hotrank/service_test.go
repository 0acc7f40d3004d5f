package hotrank_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/magic-lib/go-plat-hotcache/cache"
	"github.com/magic-lib/go-plat-hotcache/hotrank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls int32
	err   error
	empty bool
}

func (f *countingFetcher) FetchRanking(_ context.Context, q hotrank.Query) (*hotrank.Ranking, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	r := &hotrank.Ranking{Platform: q.Platform, TabID: q.TabID, FilterType: q.FilterType}
	if !f.empty {
		r.Items = []hotrank.RankItem{{Rank: 1, Title: "first"}}
	}
	return r, nil
}

func newService(t *testing.T, f hotrank.Fetcher, opt hotrank.Options) (*hotrank.Service, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	rankings := cache.NewTTLCache[*hotrank.Ranking](&cache.TTLCacheOptions{
		Name:       "hot_rankings",
		DefaultTTL: 5 * time.Minute,
		MaxSize:    10,
		Clock:      mock,
	})
	s, err := hotrank.NewService(rankings, f, opt)
	require.NoError(t, err)
	return s, mock
}

func TestRankingUsesCache(t *testing.T) {
	f := &countingFetcher{}
	s, mock := newService(t, f, hotrank.Options{})
	q := hotrank.Query{Platform: hotrank.Kuaishou, TabID: "live", FilterType: "总榜"}

	for i := 0; i < 3; i++ {
		r, err := s.Ranking(context.Background(), q)
		require.NoError(t, err)
		assert.Len(t, r.Items, 1)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
	assert.Equal(t, []string{"kuaishou_hot_live_总榜"}, s.CachedKeys())

	mock.Add(2 * time.Minute)
	info := s.Info(q)
	assert.True(t, info.Exists)
	assert.Equal(t, 3*time.Minute, info.Remaining())

	mock.Add(3 * time.Minute)
	_, err := s.Ranking(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.calls))
}

func TestRankingNormalizesPlatform(t *testing.T) {
	f := &countingFetcher{}
	s, _ := newService(t, f, hotrank.Options{})
	_, err := s.Ranking(context.Background(), hotrank.Query{Platform: "Twitter", TabID: "trending", FilterType: "UnitedStates"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x_hot_trending_UnitedStates"}, s.CachedKeys())
}

func TestRankingValidation(t *testing.T) {
	s, _ := newService(t, &countingFetcher{}, hotrank.Options{})
	_, err := s.Ranking(context.Background(), hotrank.Query{})
	assert.ErrorIs(t, err, hotrank.ErrEmptyPlatform)
	_, err = s.Ranking(context.Background(), hotrank.Query{Platform: "myspace"})
	assert.ErrorIs(t, err, hotrank.ErrUnknownPlatform)
}

func TestRankingFetchErrorNotCached(t *testing.T) {
	boom := errors.New("502")
	f := &countingFetcher{err: boom}
	s, _ := newService(t, f, hotrank.Options{})
	q := hotrank.Query{Platform: hotrank.Douyin}

	_, err := s.Ranking(context.Background(), q)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.CachedKeys())

	f.err = nil
	_, err = s.Ranking(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"douyin_hot"}, s.CachedKeys())
}

func TestRankingServesSnapshotOnFetchError(t *testing.T) {
	backends := map[string]cache.CommCache[string]{
		"go-cache":  cache.NewMemGoCache[string](time.Hour, time.Hour),
		"lru":       cache.NewMemLruCache[string](16, time.Hour),
		"fastcache": cache.NewFastCache[string](0),
	}
	for name, snap := range backends {
		t.Run(name, func(t *testing.T) {
			f := &countingFetcher{}
			s, _ := newService(t, f, hotrank.Options{Snapshot: snap, StaleTTL: time.Minute})
			q := hotrank.Query{Platform: hotrank.YouTube, TabID: "music"}

			_, err := s.Ranking(context.Background(), q)
			require.NoError(t, err)
			s.ClearCache()

			f.err = errors.New("503")
			r, err := s.Ranking(context.Background(), q)
			require.NoError(t, err)
			require.NotNil(t, r)
			assert.Equal(t, hotrank.YouTube, r.Platform)
			assert.Equal(t, "music", r.TabID)
			require.Len(t, r.Items, 1)
			assert.Equal(t, "first", r.Items[0].Title)

			info := s.Info(q)
			assert.True(t, info.Exists)
			assert.Equal(t, time.Minute, info.RemainingTTL)

			// 没有快照的榜单仍然返回错误
			_, err = s.Ranking(context.Background(), hotrank.Query{Platform: hotrank.X})
			assert.Error(t, err)
		})
	}
}

func TestRankingEmptyNotCachedByDefault(t *testing.T) {
	f := &countingFetcher{empty: true}
	s, _ := newService(t, f, hotrank.Options{})
	q := hotrank.Query{Platform: hotrank.WeChat}
	_, err := s.Ranking(context.Background(), q)
	require.NoError(t, err)
	_, err = s.Ranking(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.calls))
}

func TestRefreshGuard(t *testing.T) {
	f := &countingFetcher{}
	s, _ := newService(t, f, hotrank.Options{RefreshGuard: time.Minute})
	q := hotrank.Query{Platform: hotrank.TikTok, TabID: "music"}

	_, err := s.Ranking(context.Background(), q)
	require.NoError(t, err)

	r, err := s.Refresh(context.Background(), q)
	require.NoError(t, err)
	assert.NotNil(t, r)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.calls))

	_, err = s.Refresh(context.Background(), q)
	assert.ErrorIs(t, err, hotrank.ErrRefreshTooFrequent)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.calls))

	// 其他榜单不受影响
	_, err = s.Refresh(context.Background(), hotrank.Query{Platform: hotrank.TikTok})
	assert.NoError(t, err)
}

func TestRefreshWithoutGuard(t *testing.T) {
	f := &countingFetcher{}
	s, _ := newService(t, f, hotrank.Options{})
	q := hotrank.Query{Platform: hotrank.Pipixia}
	for i := 0; i < 3; i++ {
		_, err := s.Refresh(context.Background(), q)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&f.calls))
}

func TestClearCache(t *testing.T) {
	s, _ := newService(t, &countingFetcher{}, hotrank.Options{})
	for _, p := range hotrank.Platforms() {
		_, err := s.Ranking(context.Background(), hotrank.Query{Platform: p})
		require.NoError(t, err)
	}
	assert.Len(t, s.CachedKeys(), len(hotrank.Platforms()))
	s.ClearCache()
	assert.Empty(t, s.CachedKeys())
}

func TestNewServiceRequiresFetcher(t *testing.T) {
	_, err := hotrank.NewService(cache.NewTTLCache[*hotrank.Ranking](nil), nil, hotrank.Options{})
	assert.ErrorIs(t, err, hotrank.ErrNilFetcher)
}

func TestParsePlatform(t *testing.T) {
	p, err := hotrank.ParsePlatform(" DouYin ")
	require.NoError(t, err)
	assert.Equal(t, hotrank.Douyin, p)
}
