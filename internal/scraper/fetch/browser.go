package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// maxScrollSteps bounds the scroll-to-bottom loop on pages whose height
// keeps growing (endless recommendation feeds below the chapter images).
const maxScrollSteps = 30

// RenderOptions controls how a rendered fetch materializes the page.
type RenderOptions struct {
	// ScrollToBottom incrementally scrolls the page to trigger lazy-loaded
	// images before capturing the DOM.
	ScrollToBottom bool
	// SettleDelay is a fixed wait after navigation (and scrolling) so that
	// in-flight requests can finish.
	SettleDelay time.Duration
}

// Browser owns one long-lived headless Chrome process. It is started
// lazily on the first rendered fetch and reused across calls; each call
// gets its own tab which is always closed before the call returns. The
// orchestrator holds the Browser and passes it down, there is no package
// level singleton.
type Browser struct {
	mu        sync.Mutex
	userAgent string
	timeout   time.Duration

	browserCtx context.Context
	cancel     context.CancelFunc
	started    bool
	closed     bool
}

func NewBrowser(userAgent string, timeout time.Duration) *Browser {
	return &Browser{userAgent: userAgent, timeout: timeout}
}

// ensureStarted lazily launches the browser process. Callers must not hold
// b.mu.
func (b *Browser) ensureStarted() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		// A closed browser can be restarted; imports may outlive an
		// explicit teardown between runs.
		b.closed = false
		b.started = false
	}
	if b.started {
		return b.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.userAgent),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	b.browserCtx = browserCtx
	b.cancel = func() {
		cancelBrowser()
		cancelAlloc()
	}
	b.started = true
	return b.browserCtx, nil
}

// FetchRendered navigates to the URL in a fresh tab, waits for the page to
// load, optionally scrolls to the bottom to trigger lazy loading, waits the
// settle delay and captures the materialized DOM. The tab is closed on
// every exit path.
func (b *Browser) FetchRendered(ctx context.Context, pageURL string, opts RenderOptions) (string, error) {
	browserCtx, err := b.ensureStarted()
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}

	// Tab creation is serialized; once a tab exists it is independent of
	// other tabs, so concurrent imports only contend here.
	b.mu.Lock()
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	b.mu.Unlock()
	defer cancelTab()

	// Propagate caller cancellation into the tab.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	runCtx, cancel := context.WithTimeout(tabCtx, b.timeout)
	defer cancel()

	tasks := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if opts.ScrollToBottom {
		tasks = append(tasks, scrollToBottom())
	}
	if opts.SettleDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(opts.SettleDelay))
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(runCtx, tasks...); err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	return html, nil
}

// scrollToBottom scrolls in increments until the document height stops
// growing, so infinite-scroll readers load every page image.
func scrollToBottom() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var prev, curr int
		for i := 0; i < maxScrollSteps; i++ {
			script := `window.scrollTo(0, document.body.scrollHeight); document.body.scrollHeight`
			if err := chromedp.Evaluate(script, &curr).Do(ctx); err != nil {
				return err
			}
			if curr == prev {
				return nil
			}
			prev = curr
			if err := chromedp.Sleep(400 * time.Millisecond).Do(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close shuts down the browser process. It is idempotent and safe to call
// when the browser was never started.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started || b.closed {
		b.closed = true
		return
	}
	b.cancel()
	b.started = false
	b.closed = true
}
