package feed

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/umputun/feedtime/pkg/domain"
)

// Source provides parsed feeds
type Source interface {
	Parse(ctx context.Context, url string) (*domain.Feed, error)
}

// CachedParser keeps parsed feeds in memory for ttl, so repeated requests for the same
// url don't hit the remote server. Errors are not cached.
type CachedParser struct {
	src   Source
	cache *cache.Cache
}

// NewCachedParser wraps src with an in-memory cache
func NewCachedParser(src Source, ttl time.Duration) *CachedParser {
	return &CachedParser{src: src, cache: cache.New(ttl, 2*ttl)}
}

// Parse returns the cached feed for url or parses it with the wrapped source
func (c *CachedParser) Parse(ctx context.Context, url string) (*domain.Feed, error) {
	if v, found := c.cache.Get(url); found {
		return v.(*domain.Feed), nil
	}

	f, err := c.src.Parse(ctx, url)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(url, f)
	return f, nil
}

// Invalidate drops the cached feed for url
func (c *CachedParser) Invalidate(url string) {
	c.cache.Delete(url)
}
