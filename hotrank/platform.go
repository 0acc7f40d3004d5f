package hotrank

import (
	"errors"
	"fmt"
	"strings"
)

// Platform 支持的平台
type Platform string

const (
	TikTok   Platform = "tiktok"
	Douyin   Platform = "douyin"
	Kuaishou Platform = "kuaishou"
	YouTube  Platform = "youtube"
	X        Platform = "x"
	WeChat   Platform = "wechat"
	Pipixia  Platform = "pipixia"
)

var (
	// ErrEmptyPlatform 未指定平台
	ErrEmptyPlatform = errors.New("hotrank: platform is empty")
	// ErrUnknownPlatform 不支持的平台
	ErrUnknownPlatform = errors.New("hotrank: unknown platform")
)

// Platforms 全部平台，顺序与看板菜单一致
func Platforms() []Platform {
	return []Platform{TikTok, Douyin, Kuaishou, YouTube, X, WeChat, Pipixia}
}

// ParsePlatform 解析平台名，大小写不敏感，twitter 视为 x
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrEmptyPlatform
	}
	if s == "twitter" {
		return X, nil
	}
	for _, p := range Platforms() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}
