// Package scrape discovers job postings on supported boards and fills in
// their full descriptions. Search parses listing pages; detail scraping
// fetches each posting's own page concurrently.
package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/retry"
	"github.com/jonathan/apply-agent/internal/types"
)

// Query describes one job search.
type Query struct {
	Keywords []string
	Location string
	Limit    int
}

// KeywordString joins the keywords for URL building and history records.
func (q Query) KeywordString() string {
	return strings.Join(q.Keywords, " ")
}

// Searcher finds job postings on one source.
type Searcher interface {
	Source() string
	Search(ctx context.Context, query Query) ([]types.JobPosting, error)
}

// LinkedInSearcher parses the public LinkedIn jobs guest endpoint.
type LinkedInSearcher struct {
	BaseURL string // overridable for tests
	Fetcher *fetch.CachedFetcher
	Policy  retry.Policy
}

// NewLinkedInSearcher builds a searcher with production defaults.
func NewLinkedInSearcher(fetcher *fetch.CachedFetcher) *LinkedInSearcher {
	return &LinkedInSearcher{
		BaseURL: "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search",
		Fetcher: fetcher,
		Policy:  retry.DefaultPolicy(),
	}
}

func (s *LinkedInSearcher) Source() string { return "linkedin" }

func (s *LinkedInSearcher) Search(ctx context.Context, query Query) ([]types.JobPosting, error) {
	params := url.Values{}
	params.Set("keywords", query.KeywordString())
	if query.Location != "" {
		params.Set("location", query.Location)
	}
	searchURL := s.BaseURL + "?" + params.Encode()

	var result *fetch.CachedResult
	err := s.Policy.Do(ctx, "linkedin search", func(ctx context.Context) error {
		var fetchErr error
		result, fetchErr = s.Fetcher.Fetch(ctx, searchURL)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	postings, err := parseLinkedInListings(result.HTML)
	if err != nil {
		return nil, err
	}
	return capPostings(postings, query.Limit), nil
}

func parseLinkedInListings(html string) ([]types.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	var postings []types.JobPosting
	doc.Find("div.base-card, li div.base-search-card").Each(func(_ int, card *goquery.Selection) {
		posting := types.JobPosting{
			Source:   "linkedin",
			Title:    strings.TrimSpace(card.Find(".base-search-card__title").First().Text()),
			Company:  strings.TrimSpace(card.Find(".base-search-card__subtitle").First().Text()),
			Location: strings.TrimSpace(card.Find(".job-search-card__location").First().Text()),
		}
		if href, ok := card.Find("a.base-card__full-link").First().Attr("href"); ok {
			posting.URL = strings.TrimSpace(href)
		}
		if posting.Title == "" {
			return
		}
		posting.EnsureJobID()
		postings = append(postings, posting)
	})
	return postings, nil
}

// IndeedSearcher parses Indeed search result pages.
type IndeedSearcher struct {
	BaseURL string
	Fetcher *fetch.CachedFetcher
	Policy  retry.Policy
}

// NewIndeedSearcher builds a searcher with production defaults.
func NewIndeedSearcher(fetcher *fetch.CachedFetcher) *IndeedSearcher {
	return &IndeedSearcher{
		BaseURL: "https://www.indeed.com/jobs",
		Fetcher: fetcher,
		Policy:  retry.DefaultPolicy(),
	}
}

func (s *IndeedSearcher) Source() string { return "indeed" }

func (s *IndeedSearcher) Search(ctx context.Context, query Query) ([]types.JobPosting, error) {
	params := url.Values{}
	params.Set("q", query.KeywordString())
	if query.Location != "" {
		params.Set("l", query.Location)
	}
	searchURL := s.BaseURL + "?" + params.Encode()

	var result *fetch.CachedResult
	err := s.Policy.Do(ctx, "indeed search", func(ctx context.Context) error {
		var fetchErr error
		result, fetchErr = s.Fetcher.Fetch(ctx, searchURL)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	postings, err := parseIndeedListings(result.HTML, s.BaseURL)
	if err != nil {
		return nil, err
	}
	return capPostings(postings, query.Limit), nil
}

func parseIndeedListings(html, baseURL string) ([]types.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	base, _ := url.Parse(baseURL)

	var postings []types.JobPosting
	doc.Find("div.job_seen_beacon, td.resultContent").Each(func(_ int, card *goquery.Selection) {
		posting := types.JobPosting{
			Source:   "indeed",
			Title:    strings.TrimSpace(card.Find("h2.jobTitle").First().Text()),
			Company:  strings.TrimSpace(card.Find("[data-testid='company-name'], span.companyName").First().Text()),
			Location: strings.TrimSpace(card.Find("[data-testid='text-location'], div.companyLocation").First().Text()),
		}
		if href, ok := card.Find("h2.jobTitle a").First().Attr("href"); ok && base != nil {
			if ref, err := url.Parse(href); err == nil {
				posting.URL = base.ResolveReference(ref).String()
			}
		}
		if posting.Title == "" {
			return
		}
		posting.EnsureJobID()
		postings = append(postings, posting)
	})
	return postings, nil
}

// SearchAll runs every searcher, merges the results, and deduplicates by job
// id. A failing source is logged and skipped; search only fails when every
// source fails.
func SearchAll(ctx context.Context, searchers []Searcher, query Query) ([]types.JobPosting, error) {
	var merged []types.JobPosting
	var lastErr error
	failures := 0

	for _, s := range searchers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		postings, err := s.Search(ctx, query)
		if err != nil {
			log.Printf("[search] %s failed: %v", s.Source(), err)
			lastErr = err
			failures++
			continue
		}
		merged = append(merged, postings...)
	}

	if len(searchers) > 0 && failures == len(searchers) {
		return nil, lastErr
	}
	return capPostings(types.DedupePostings(merged), query.Limit), nil
}

func capPostings(postings []types.JobPosting, limit int) []types.JobPosting {
	if limit > 0 && len(postings) > limit {
		return postings[:limit]
	}
	return postings
}
