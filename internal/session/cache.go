// Package session caches provider authentication tokens. A cache is shared
// process-wide per provider; concurrent requests finding an absent or
// expired token collapse into a single login exchange.
package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Token is one provider authentication artifact. Expiry is the absolute
// instant after which the token must not be reused; the LoginFunc computes
// it from the provider-declared lifetime with a safety margin.
type Token struct {
	Value  string
	Expiry time.Time
}

// LoginFunc performs a login exchange against the provider. It returns
// apperrors.ErrConfiguration when credentials are missing and
// apperrors.ErrAuth when the provider rejects the login.
type LoginFunc func(ctx context.Context) (Token, error)

// Cache holds one provider token and refreshes it lazily. Both Token fields
// are overwritten atomically from a reader's perspective: readers take the
// lock and see either the old pair or the new pair, never a partial update.
type Cache struct {
	login LoginFunc
	now   func() time.Time

	mu  sync.RWMutex
	tok Token

	group singleflight.Group
}

// NewCache creates a token cache around the given login exchange.
func NewCache(login LoginFunc) *Cache {
	return &Cache{
		login: login,
		now:   time.Now,
	}
}

// NewCacheWithClock is like NewCache with an injectable clock for tests.
func NewCacheWithClock(login LoginFunc, now func() time.Time) *Cache {
	return &Cache{
		login: login,
		now:   now,
	}
}

// Get returns the cached token while it is still valid, otherwise performs
// a login exchange and stores the result before returning it. Concurrent
// refreshes are collapsed into one in-flight login.
func (c *Cache) Get(ctx context.Context) (string, error) {
	c.mu.RLock()
	tok := c.tok
	c.mu.RUnlock()

	if tok.Value != "" && c.now().Before(tok.Expiry) {
		return tok.Value, nil
	}

	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		// Another caller may have refreshed while we waited on the group.
		c.mu.RLock()
		cur := c.tok
		c.mu.RUnlock()
		if cur.Value != "" && c.now().Before(cur.Expiry) {
			return cur.Value, nil
		}

		fresh, err := c.login(ctx)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.tok = fresh
		c.mu.Unlock()

		return fresh.Value, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Invalidate drops the cached token so the next Get performs a fresh login.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.tok = Token{}
	c.mu.Unlock()
}
