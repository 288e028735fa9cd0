// Package fetch - cached.go wraps URL fetching with an in-memory TTL cache
// so a listing fetched during search is not re-fetched for detail scraping.
package fetch

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched page stays fresh.
const DefaultCacheTTL = 1 * time.Hour

// CachedFetcher wraps URL fetching with in-memory caching keyed by URL.
// Safe for concurrent use.
type CachedFetcher struct {
	mu       sync.Mutex
	pages    map[string]cachedPage
	options  *Options
	cacheTTL time.Duration
	now      func() time.Time
}

type cachedPage struct {
	result    Result
	fetchedAt time.Time
}

// NewCachedFetcher creates a cached fetcher. A zero ttl uses DefaultCacheTTL.
func NewCachedFetcher(opts *Options, ttl time.Duration) *CachedFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{
		pages:    make(map[string]cachedPage),
		options:  opts,
		cacheTTL: ttl,
		now:      time.Now,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
}

// Fetch retrieves a URL, returning the cached copy when it is still fresh.
// Failures are never cached.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	f.mu.Lock()
	if page, ok := f.pages[urlStr]; ok && f.now().Sub(page.fetchedAt) < f.cacheTTL {
		result := page.result
		f.mu.Unlock()
		return &CachedResult{Result: &result, FromCache: true}, nil
	}
	f.mu.Unlock()

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.pages[urlStr] = cachedPage{result: *result, fetchedAt: f.now()}
	f.mu.Unlock()

	return &CachedResult{Result: result, FromCache: false}, nil
}

// Invalidate drops the cached copy of a URL, forcing a re-fetch.
func (f *CachedFetcher) Invalidate(urlStr string) {
	f.mu.Lock()
	delete(f.pages, urlStr)
	f.mu.Unlock()
}
