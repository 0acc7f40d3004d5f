package cache

import (
	"fmt"

	"github.com/magic-lib/go-plat-utils/conv"
)

// strToVal 字符串缓存值反序列化为目标类型
func strToVal[V any](valueStr string) (V, error) {
	ptr := new(V)
	if err := conv.Unmarshal(valueStr, ptr); err != nil {
		var zero V
		return zero, fmt.Errorf("cache: decode value: %w", err)
	}
	return *ptr, nil
}
