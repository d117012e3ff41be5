// Package schedule orchestrates a scrape of the SF State class search:
// listing pages, then class detail pages, then extraction.
package schedule

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/classload"
	"github.com/fwojciec/classload/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the public class search of SF State.
const DefaultBaseURL = "https://webapps.sfsu.edu/public/classservices/classsearch"

// DefaultMaxPages stops a pagination loop that keeps producing new URLs.
const DefaultMaxPages = 50

// Ensure Scraper implements classload.Scraper at compile time.
var _ classload.Scraper = (*Scraper)(nil)

// Scraper fetches the results listing for a run config, enriches each row
// from its class detail page and aggregates the rows into a report.
type Scraper struct {
	Fetcher classload.Fetcher

	// DetailFetcher loads class detail pages. Nil means Fetcher. A browser
	// fetcher waits for page-specific content, so listings and details
	// each need their own.
	DetailFetcher classload.Fetcher

	Listings    classload.ListingParser
	Details     classload.DetailParser
	RateLimiter classload.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
	BaseURL     string
	MaxPages    int

	// Layout describes the listing rows. Nil means classload.SFSULayout.
	Layout *classload.ColumnLayout

	// RetryLog, if set, is called before each retry.
	RetryLog LogFunc
}

// detailResult holds the outcome of fetching one detail page.
type detailResult struct {
	url    string
	detail *classload.SectionDetail
	err    error
}

// Scrape implements classload.Scraper.
func (s *Scraper) Scrape(ctx context.Context, cfg classload.RunConfig, progress classload.ProgressFunc) (*classload.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(classload.ProgressEvent) {}
	}
	layout := classload.SFSULayout
	if s.Layout != nil {
		layout = *s.Layout
	}

	startURL := ResultsURL(s.BaseURL, cfg)
	progress(classload.ProgressEvent{Type: classload.ProgressStarted, URL: startURL})

	rows, pages, empty, err := s.fetchListing(ctx, startURL, progress)
	if err != nil {
		return nil, err
	}
	if empty || len(rows) == 0 {
		report := classload.EmptyReport(cfg)
		report.Stats.Pages = pages
		progress(classload.ProgressEvent{Type: classload.ProgressFinished, Completed: pages, Total: pages})
		return report, nil
	}

	if err := s.enrichRows(ctx, rows, layout, progress); err != nil {
		return nil, err
	}

	report := classload.Extract(rows, layout)
	report.Config = cfg
	report.Stats.Pages = pages

	progress(classload.ProgressEvent{
		Type:      classload.ProgressFinished,
		Completed: report.Stats.RowsParsed,
		Total:     report.Stats.RowsScraped,
	})
	return report, nil
}

// fetchListing walks the results pages starting at startURL. Only a failure
// on the first page is an error; later pages are reported and end the walk.
func (s *Scraper) fetchListing(ctx context.Context, startURL string, progress classload.ProgressFunc) ([]classload.Row, int, bool, error) {
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	seen := bloom.NewPageFilter()
	var rows []classload.Row
	pages := 0

	for next := startURL; next != "" && pages < maxPages; {
		if !seen.Visit(next) {
			break
		}
		pageURL := next
		next = ""

		html, err := s.fetch(ctx, s.Fetcher, pageURL)
		if err == nil {
			var page *classload.ListingPage
			page, err = s.Listings.ParseListing(html, pageURL)
			if err == nil {
				pages++
				if page.NoResults && pages == 1 {
					return nil, pages, true, nil
				}
				rows = append(rows, page.Rows...)
				next = page.NextURL
				progress(classload.ProgressEvent{
					Type:      classload.ProgressPage,
					Completed: pages,
					URL:       pageURL,
				})
				continue
			}
		}

		if pages == 0 {
			return nil, 0, false, fmt.Errorf("fetch listing %s: %w", pageURL, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, pages, false, ctxErr
		}
		progress(classload.ProgressEvent{Type: classload.ProgressFailed, URL: pageURL, Error: err})
	}

	return rows, pages, false, nil
}

// enrichRows fetches the detail page of every data row and writes the
// course code and enrollment into the layout's columns. A failed detail
// page leaves the cells blank, so the row parser skips and counts it.
func (s *Scraper) enrichRows(ctx context.Context, rows []classload.Row, layout classload.ColumnLayout, progress classload.ProgressFunc) error {
	var urls []string
	targets := make(map[string][]int)
	for i, row := range rows {
		if row.DetailURL == "" {
			continue
		}
		if classload.ParseRow(row, layout).Kind == classload.RowNotData {
			continue
		}
		if _, ok := targets[row.DetailURL]; !ok {
			urls = append(urls, row.DetailURL)
		}
		targets[row.DetailURL] = append(targets[row.DetailURL], i)
	}
	if len(urls) == 0 {
		return nil
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	resultCh := make(chan detailResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, u := range urls {
			u := u
			g.Go(func() error {
				resultCh <- s.fetchDetail(gctx, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	total := len(urls)
	for result := range resultCh {
		n := int(completed.Add(1))
		if result.err != nil {
			progress(classload.ProgressEvent{
				Type:      classload.ProgressFailed,
				Completed: n,
				Total:     total,
				URL:       result.url,
				Error:     result.err,
			})
			continue
		}
		for _, i := range targets[result.url] {
			rows[i].Set(layout.CourseNumber, result.detail.CourseCode)
			rows[i].Set(layout.Enrolled, result.detail.Enrolled)
		}
		progress(classload.ProgressEvent{
			Type:      classload.ProgressDetail,
			Completed: n,
			Total:     total,
			URL:       result.url,
		})
	}

	return ctx.Err()
}

func (s *Scraper) fetchDetail(ctx context.Context, detailURL string) detailResult {
	result := detailResult{url: detailURL}
	fetcher := s.DetailFetcher
	if fetcher == nil {
		fetcher = s.Fetcher
	}
	html, err := s.fetch(ctx, fetcher, detailURL)
	if err != nil {
		result.err = err
		return result
	}
	result.detail, result.err = s.Details.ParseDetail(html)
	return result
}

// fetch waits for the rate limiter and fetches url with retries.
func (s *Scraper) fetch(ctx context.Context, fetcher classload.Fetcher, rawURL string) (string, error) {
	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, hostOf(rawURL)); err != nil {
			return "", err
		}
	}
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, rawURL, fetcher.Fetch, s.RetryLog, delays)
}

// ResultsURL returns the class search results URL for cfg. An empty base
// means DefaultBaseURL.
func ResultsURL(base string, cfg classload.RunConfig) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/results?term=%s&classCategory=%s&subject=%s",
		strings.TrimRight(base, "/"),
		url.QueryEscape(cfg.Term),
		url.QueryEscape(cfg.Category),
		url.QueryEscape(cfg.Subject),
	)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
