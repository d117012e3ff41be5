package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/classload"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager owns the Chrome process used for the class search pages
// and hands out tabs on it. A subject with hundreds of sections means
// hundreds of detail page loads, and Chrome memory keeps growing even with
// tabs closed, so the browser is replaced after maxPages loads.
//
// Detail pages are fetched concurrently, so the browser is only replaced
// once every tab handed out on it has been released; callers asking for a
// tab in the meantime wait for the drain.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	drained  *sync.Cond
	browser  *rod.Browser
	launcher *launcher.Launcher
	loaded   int64 // pages released on the current browser
	open     int   // tabs handed out and not yet released
	maxPages int64
	recycles int64
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of page loads before the browser is
// recycled. Defaults to DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	bm.drained = sync.NewCond(&bm.mu)
	for _, opt := range opts {
		opt(bm)
	}
	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Page opens a blank tab. The returned release func closes the tab and
// counts it as one page load; it must be called exactly once.
func (bm *BrowserManager) Page() (*rod.Page, func(), error) {
	bm.mu.Lock()
	for !bm.closed && bm.loaded >= bm.maxPages && bm.open > 0 {
		bm.drained.Wait()
	}
	if bm.closed {
		bm.mu.Unlock()
		return nil, nil, classload.Errorf(classload.EINVALID, "browser is closed")
	}
	if bm.loaded >= bm.maxPages {
		bm.recycleBrowser()
	}
	browser := bm.browser
	bm.open++
	bm.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		bm.done(false)
		return nil, nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			_ = page.Close()
			bm.done(true)
		})
	}
	return page, release, nil
}

// done returns a tab and wakes callers waiting to recycle.
func (bm *BrowserManager) done(loaded bool) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.open--
	if loaded {
		bm.loaded++
	}
	if bm.open == 0 {
		bm.drained.Broadcast()
	}
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed {
		return nil
	}
	bm.closed = true
	bm.drained.Broadcast()
	return bm.closeBrowser()
}

// launchBrowser starts a new browser instance with stability flags.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser swaps in a fresh browser. If the launch fails the old
// browser stays in use and the count restarts, so a broken launch is
// retried after another maxPages loads instead of on every page.
// Must be called with mu held and no tabs open.
func (bm *BrowserManager) recycleBrowser() {
	oldBrowser, oldLauncher := bm.browser, bm.launcher
	bm.loaded = 0
	if err := bm.launchBrowser(); err != nil {
		bm.browser, bm.launcher = oldBrowser, oldLauncher
		return
	}
	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.recycles++
}

// Recycles returns how many times the browser has been replaced.
func (bm *BrowserManager) Recycles() int64 {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.recycles
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
