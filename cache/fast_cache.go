package cache

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/magic-lib/go-plat-utils/conv"
)

const expiryHeaderLen = 8

type fastCache[V any] struct {
	mCache *fastcache.Cache
}

// NewFastCache 基于 fastcache 的定容量缓存，maxBytes 过小时使用128M
func NewFastCache[V any](maxBytes int) CommCache[V] {
	if maxBytes <= 1024 {
		maxBytes = 128 * 1024 * 1024
	}
	return &fastCache[V]{
		mCache: fastcache.New(maxBytes),
	}
}

// Get 从缓存中取得一个值，过期的直接删除
func (co *fastCache[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	data := co.mCache.Get(nil, []byte(key))
	if len(data) < expiryHeaderLen {
		return zero, nil
	}
	expireAt := int64(binary.BigEndian.Uint64(data[:expiryHeaderLen]))
	if expireAt > 0 && time.Now().UnixNano() >= expireAt {
		co.mCache.Del([]byte(key))
		return zero, nil
	}
	return conv.Convert[V](string(data[expiryHeaderLen:]))
}

// Set 值前8字节记录过期时间，timeout<=0 表示不过期
func (co *fastCache[V]) Set(_ context.Context, key string, val V, timeout time.Duration) (bool, error) {
	var expireAt int64
	if timeout > 0 {
		expireAt = time.Now().Add(timeout).UnixNano()
	}
	body := conv.String(val)
	data := make([]byte, expiryHeaderLen, expiryHeaderLen+len(body))
	binary.BigEndian.PutUint64(data, uint64(expireAt))
	data = append(data, body...)
	co.mCache.Set([]byte(key), data)
	return true, nil
}

// Del 从缓存中删除一个key
func (co *fastCache[V]) Del(_ context.Context, key string) (bool, error) {
	found := co.mCache.Has([]byte(key))
	co.mCache.Del([]byte(key))
	return found, nil
}
