// Package fetch retrieves HTML from source sites. Two strategies exist: a
// plain HTTP GET for static pages, and a headless-browser fetch for pages
// that materialize their content with client-side script.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchError is returned for network failures, timeouts and non-2xx
// responses from a source site.
type FetchError struct {
	URL        string
	StatusCode int // zero for transport-level failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client performs static HTML fetches with a browser-like user agent.
type Client struct {
	http      *http.Client
	userAgent string
}

func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchStatic issues a single GET for the URL and returns the response body
// as a string. Non-2xx responses and transport errors surface as *FetchError.
func (c *Client) FetchStatic(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	return string(body), nil
}

// Session bundles the static client and the shared headless browser behind
// one value that satisfies the importer's Fetcher interface.
type Session struct {
	*Client
	browser *Browser
}

func NewSession(userAgent string, requestTimeout, renderTimeout time.Duration) *Session {
	return &Session{
		Client:  NewClient(userAgent, requestTimeout),
		browser: NewBrowser(userAgent, renderTimeout),
	}
}

func (s *Session) FetchRendered(ctx context.Context, pageURL string, opts RenderOptions) (string, error) {
	return s.browser.FetchRendered(ctx, pageURL, opts)
}

// Close releases the headless browser, if one was ever started. Safe to
// call more than once.
func (s *Session) Close() { s.browser.Close() }
