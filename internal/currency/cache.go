// Package currency serves USD and EUR reference rates against the hryvnia.
package currency

import (
	"context"
	"sync"
	"time"
)

// Cache holds one value for ttl after it was fetched. Concurrent callers
// that find it expired share a single refresh.
type Cache[T any] struct {
	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewCache returns an empty cache.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{ttl: ttl, now: time.Now}
}

// GetOrRefresh returns the cached value while it is younger than ttl, and
// otherwise calls refresh and caches its result. A failed refresh leaves
// the cache empty-or-expired and returns the error.
func (c *Cache[T]) GetOrRefresh(ctx context.Context, refresh func(ctx context.Context) (T, error)) (T, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh() {
		return c.value, c.fetchedAt, nil
	}

	v, err := refresh(ctx)
	if err != nil {
		var zero T
		return zero, time.Time{}, err
	}
	c.value = v
	c.fetchedAt = c.now()
	return c.value, c.fetchedAt, nil
}

// Invalidate forgets the cached value.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.fetchedAt = time.Time{}
}

// fresh must be called with mu held.
func (c *Cache[T]) fresh() bool {
	if c.fetchedAt.IsZero() {
		return false
	}
	return c.now().Sub(c.fetchedAt) < c.ttl
}
