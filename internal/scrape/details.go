package scrape

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/retry"
	"github.com/jonathan/apply-agent/internal/types"
)

// DefaultDetailConcurrency bounds how many posting pages are fetched at once.
const DefaultDetailConcurrency = 4

// DetailScraper fills in full job descriptions by fetching each posting's
// own page.
type DetailScraper struct {
	Fetcher     *fetch.CachedFetcher
	Policy      retry.Policy
	Concurrency int
	UseBrowser  bool
	Verbose     bool
}

// NewDetailScraper builds a scraper with production defaults.
func NewDetailScraper(fetcher *fetch.CachedFetcher) *DetailScraper {
	return &DetailScraper{
		Fetcher:     fetcher,
		Policy:      retry.DefaultPolicy(),
		Concurrency: DefaultDetailConcurrency,
	}
}

// ScrapeDetails fetches descriptions for every posting concurrently. Input
// order is preserved in the returned slice. A posting whose fetch fails keeps
// an empty description and its error is reported in the map; one bad posting
// never aborts the batch.
func (d *DetailScraper) ScrapeDetails(ctx context.Context, postings []types.JobPosting) ([]types.JobPosting, map[string]error) {
	out := make([]types.JobPosting, len(postings))
	copy(out, postings)

	var mu sync.Mutex
	failed := make(map[string]error)

	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultDetailConcurrency
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range out {
		if out[i].Description != "" || out[i].URL == "" {
			continue
		}
		i := i
		g.Go(func() error {
			description, err := d.scrapeOne(gCtx, out[i].URL)
			if err != nil {
				log.Printf("[details] %s (%s): %v", out[i].JobID, out[i].URL, err)
				mu.Lock()
				failed[out[i].JobID] = err
				mu.Unlock()
				return nil // isolate the failure
			}
			out[i].Description = description
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Only context cancellation reaches here.
		mu.Lock()
		defer mu.Unlock()
		return out, failed
	}
	return out, failed
}

func (d *DetailScraper) scrapeOne(ctx context.Context, urlStr string) (string, error) {
	platform := fetch.DetectPlatform(urlStr)
	selectors := fetch.PlatformContentSelectors(platform)
	noise := fetch.PlatformNoiseSelectors(platform)

	var result *fetch.CachedResult
	err := d.Policy.Do(ctx, "scrape "+urlStr, func(ctx context.Context) error {
		var fetchErr error
		result, fetchErr = d.Fetcher.Fetch(ctx, urlStr)
		return fetchErr
	})
	if err != nil {
		return "", err
	}

	text, err := fetch.ExtractMainText(result.HTML, selectors, noise...)
	if err != nil {
		return "", err
	}

	if d.UseBrowser && fetch.ShouldUseBrowser(text) {
		html, browserErr := fetch.WithBrowser(ctx, urlStr, 60*time.Second, d.Verbose)
		if browserErr != nil {
			// Keep whatever the plain fetch produced.
			return text, nil
		}
		rendered, extractErr := fetch.ExtractMainText(html, selectors, noise...)
		if extractErr == nil && len(rendered) > len(text) {
			return rendered, nil
		}
	}
	return text, nil
}
