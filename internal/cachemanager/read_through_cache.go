package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache loads missing entries with fn and caches the result.
// Errors are never cached.
type ReadThroughCache[K ~string, V any] struct {
	cache CacheManager[K, V]
	fn    func(ctx context.Context, key K) (V, error)
	ttl   time.Duration
	skip  bool
}

// NewReadThroughCache wraps cache. With skip set every Get calls fn.
func NewReadThroughCache[K ~string, V any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, key K) (V, error),
	ttl time.Duration,
	skip bool,
) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{cache: cache, fn: fn, ttl: ttl, skip: skip}
}

// Get returns the cached value for key or loads it.
func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if r.skip {
		return r.fn(ctx, key)
	}
	if v, ok := r.cache.Get(ctx, key); ok {
		return v, nil
	}
	v, err := r.fn(ctx, key)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, r.ttl)
	return v, nil
}

// Invalidate drops every cached entry.
func (r *ReadThroughCache[K, V]) Invalidate(ctx context.Context) error {
	return r.cache.Flush(ctx)
}
