package cache

import (
	"context"
	"time"

	cuckoo "github.com/seiflotfy/cuckoofilter"
)

var (
	defaultFilterSize = 1000000
)

type cuckooFilter[V bool] struct {
	cf *cuckoo.Filter
}

// NewCuckooFilter 创建过滤器实例，Get 返回key是否出现过（存在极低的误判）
func NewCuckooFilter(capacity int) CommCache[bool] {
	if capacity <= 0 {
		capacity = defaultFilterSize
	}
	return &cuckooFilter[bool]{
		cf: cuckoo.NewFilter(uint(capacity)),
	}
}

// Get 从过滤器中查询
func (c *cuckooFilter[V]) Get(_ context.Context, key string) (bool, error) {
	return c.cf.Lookup([]byte(key)), nil
}

// Set 写入过滤器，已存在时返回false
func (c *cuckooFilter[V]) Set(_ context.Context, key string, _ V, _ time.Duration) (bool, error) {
	return c.cf.InsertUnique([]byte(key)), nil
}

// Del 从过滤器中删除
func (c *cuckooFilter[V]) Del(_ context.Context, key string) (bool, error) {
	return c.cf.Delete([]byte(key)), nil
}
