package cache_test

import (
	"testing"

	"github.com/magic-lib/go-plat-hotcache/cache"
	"github.com/stretchr/testify/assert"
)

func TestCreateCacheKey(t *testing.T) {
	cases := []struct {
		platform   string
		qualifiers []string
		want       string
	}{
		{"kuaishou", []string{"live", "总榜"}, "kuaishou_hot_live_总榜"},
		{"x", []string{"trending", "UnitedStates"}, "x_hot_trending_UnitedStates"},
		{"douyin", nil, "douyin_hot"},
		{"kuaishou", []string{"live"}, "kuaishou_hot_live"},
		{"kuaishou", []string{"live", ""}, "kuaishou_hot_live"},
		{"youtube", []string{"", "music"}, "youtube_hot_music"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cache.CreateCacheKey(tc.platform, tc.qualifiers...))
	}
}
