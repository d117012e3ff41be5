package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/classload"
)

// Ensure Fetcher implements classload.Fetcher at compile time.
var _ classload.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page load, including the wait for the
// results table to render.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves rendered class search pages using Chrome browser
// automation. The browser is recycled by a BrowserManager so that long runs
// over many detail pages keep a bounded memory footprint.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	fetchTimeout time.Duration
	waitSelector string
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithWaitSelector makes Fetch wait until an element matching selector is
// present before reading the HTML. Pages that never render the element
// are still returned once loading finishes.
func WithWaitSelector(selector string) Option {
	return func(f *Fetcher) {
		f.waitSelector = selector
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	return NewFetcherWithManager(nil, opts...)
}

// NewFetcherWithManager creates a Fetcher on top of an existing manager.
// A nil manager launches a new one with default settings.
func NewFetcherWithManager(manager *BrowserManager, opts ...Option) (*Fetcher, error) {
	if manager == nil {
		var err error
		manager, err = NewBrowserManager()
		if err != nil {
			return nil, err
		}
	}
	f := &Fetcher{
		manager:      manager,
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", classload.Errorf(classload.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	page, release, err := f.manager.Page()
	if err != nil {
		return "", err
	}
	defer release()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", contextErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", contextErr(ctx, err)
	}
	if f.waitSelector != "" {
		// Listings fill their table by script after load and detail pages
		// their panel; a page without either is still returned.
		_, _ = page.Timeout(f.fetchTimeout / 2).Element(f.waitSelector)
	}

	html, err := page.HTML()
	if err != nil {
		return "", contextErr(ctx, err)
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// contextErr prefers the context error so callers can match
// context.DeadlineExceeded regardless of how rod reports the abort.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
