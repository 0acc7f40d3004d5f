package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"time"

	"github.com/magic-lib/go-plat-utils/conv"
)

// ErrNoLocalCache 未传入本地缓存
var ErrNoLocalCache = errors.New("cache: local ttl cache is required")

type defaultCache[T any] struct {
	local *TTLCache[any]    // 本地缓存，所有读写先经过这里
	tier  CommCache[string] // 可选的第二层缓存
	ns    string            // 命名空间
}

// New 新建两级缓存，local 由调用方创建并在多个命名空间间共享
func New[T any](ns string, local *TTLCache[any], tier ...CommCache[string]) (CommCache[T], error) {
	if local == nil {
		return nil, ErrNoLocalCache
	}
	com := &defaultCache[T]{
		local: local,
		ns:    ns,
	}
	if len(tier) > 0 {
		com.tier = tier[0]
	}
	return com, nil
}

// Get 先查本地缓存，不存在再查第二层
func (co *defaultCache[T]) Get(ctx context.Context, key string) (T, error) {
	key = getNsKey(co.ns, key)
	if ret, ok := co.local.Get(key); ok {
		if retVal, ok := ret.(T); ok {
			return retVal, nil
		}
	}
	if co.tier == nil {
		return *new(T), nil
	}
	ret, err := co.tier.Get(ctx, key)
	if err != nil {
		return *new(T), err
	}
	val, err := decodeValue[T](ret)
	if err != nil {
		return val, err
	}
	if ret != "" {
		co.local.Set(key, val)
	}
	return val, nil
}

// Set 同时写入两级缓存，timeout<=0 使用本地缓存的默认过期时间
func (co *defaultCache[T]) Set(ctx context.Context, key string, val T, timeout time.Duration) (bool, error) {
	key = getNsKey(co.ns, key)
	co.local.Set(key, val, timeout)
	if co.tier == nil {
		return true, nil
	}
	if timeout <= 0 {
		timeout = co.local.DefaultTTL()
	}
	return co.tier.Set(ctx, key, encodeValue[T](val), timeout)
}

// Del 从两级缓存中删除
func (co *defaultCache[T]) Del(ctx context.Context, key string) (bool, error) {
	key = getNsKey(co.ns, key)
	removed := co.local.Delete(key)
	if co.tier == nil {
		return removed, nil
	}
	ok, err := co.tier.Del(ctx, key)
	return removed || ok, err
}

func decodeValue[T any](val string) (T, error) {
	if val == "" {
		return *new(T), nil
	}
	newT := new(T)
	if err := gob.NewDecoder(bytes.NewBufferString(val)).Decode(newT); err == nil {
		return *newT, nil
	}
	if err := conv.Unmarshal(val, newT); err != nil {
		return *newT, err
	}
	return *newT, nil
}

func encodeValue[T any](val T) string {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(val); err != nil {
		return conv.String(val)
	}
	return buf.String()
}
