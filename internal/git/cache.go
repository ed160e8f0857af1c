package git

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedProbe wraps a Probe with a short-lived LRU so that overlapping
// queries inside one refresh cycle only reach git once. Any write made by
// this process must call Invalidate; the Dispatcher does so after every
// VCS call.
//
// Failures are never cached.
type CachedProbe struct {
	inner Probe
	ttl   time.Duration
	cache *expirable.LRU[string, string]
}

// maxCacheEntries bounds the cache across long sessions. Diffs are keyed
// per path, so this is roughly "recently opened files".
const maxCacheEntries = 64

// Compile-time checks.
var (
	_ Probe       = (*CachedProbe)(nil)
	_ Invalidator = (*CachedProbe)(nil)
)

// NewCachedProbe wraps inner. A ttl of zero or less disables caching.
func NewCachedProbe(inner Probe, ttl time.Duration) *CachedProbe {
	c := &CachedProbe{inner: inner, ttl: ttl}
	if ttl > 0 {
		c.cache = expirable.NewLRU[string, string](maxCacheEntries, nil, ttl)
	}
	return c
}

// Invalidate drops every cached result.
func (c *CachedProbe) Invalidate() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

func (c *CachedProbe) cached(key string, fetch func() (string, error)) (string, error) {
	if c.cache == nil {
		return fetch()
	}
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		return "", err
	}
	c.cache.Add(key, v)
	return v, nil
}

func (c *CachedProbe) Status(ctx context.Context) (string, error) {
	return c.cached("status", func() (string, error) { return c.inner.Status(ctx) })
}

func (c *CachedProbe) Diff(ctx context.Context, path string, staged bool) (string, error) {
	key := "diff:" + strconv.FormatBool(staged) + ":" + path
	return c.cached(key, func() (string, error) { return c.inner.Diff(ctx, path, staged) })
}

func (c *CachedProbe) DiffUntracked(ctx context.Context, path string) (string, error) {
	return c.cached("untracked:"+path, func() (string, error) { return c.inner.DiffUntracked(ctx, path) })
}

func (c *CachedProbe) Branches(ctx context.Context) (string, error) {
	return c.cached("branches", func() (string, error) { return c.inner.Branches(ctx) })
}
