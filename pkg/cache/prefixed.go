package cache

import (
	"context"
	"time"
)

// Prefixed wraps a Cache and prepends a namespace to every key, so several
// tools or service versions can share one redis instance.
type Prefixed struct {
	inner  Cache
	prefix string
}

// NewPrefixed creates a cache that stores keys as prefix+key in inner.
func NewPrefixed(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Prefixed{inner: inner, prefix: prefix}
}

func (c *Prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

func (c *Prefixed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

func (c *Prefixed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

func (c *Prefixed) Close() error {
	return c.inner.Close()
}

var _ Cache = (*Prefixed)(nil)
