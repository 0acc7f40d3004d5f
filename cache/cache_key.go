package cache

import (
	"strings"

	"github.com/samber/lo"
)

const hotKeySuffix = "hot"

// CreateCacheKey 榜单缓存key：{platform}_hot 后按顺序拼接非空的 tab、筛选条件
func CreateCacheKey(platform string, qualifiers ...string) string {
	parts := append([]string{platform, hotKeySuffix}, lo.Compact(qualifiers)...)
	return strings.Join(parts, "_")
}
