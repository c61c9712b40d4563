package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// FixtureSlug is the series served by the fixture site.
const FixtureSlug = "test-series"

// FixtureChapters and FixturePagesPerChapter describe the fixture series
// shape so tests can assert against it.
const (
	FixtureChapters        = 3
	FixturePagesPerChapter = 5
)

// FixtureSite starts an httptest server that mimics a static source site:
// one series page with chapter links, one page per chapter with page
// images, and the image files themselves.
func FixtureSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/series/"+FixtureSlug, func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`<html><body><h1>Test Series</h1>`)
		b.WriteString(`<img alt="Manga Image" src="/images/cover.jpg">`)
		b.WriteString(`<p>A long enough synopsis paragraph describing the fixture series in plenty of detail so the description heuristic picks it up during extraction.</p>`)
		b.WriteString(`<a href="/genre/action">Action</a>`)
		b.WriteString(`<a href="/genre/fantasy">Fantasy</a>`)
		b.WriteString(`<a href="/status/ongoing">مستمرة</a>`)
		b.WriteString(`<a href="/type/manhwa">مانهوا</a>`)
		for c := 1; c <= FixtureChapters; c++ {
			fmt.Fprintf(&b, `<a href="/series/%s/%d">الفصل %d</a>`, FixtureSlug, c, c)
		}
		b.WriteString(`</body></html>`)
		w.Write([]byte(b.String()))
	})

	for c := 1; c <= FixtureChapters; c++ {
		chapter := c
		mux.HandleFunc(fmt.Sprintf("/series/%s/%d", FixtureSlug, chapter), func(w http.ResponseWriter, r *http.Request) {
			var b strings.Builder
			b.WriteString(`<html><body>`)
			for p := 1; p <= FixturePagesPerChapter; p++ {
				fmt.Fprintf(&b, `<img alt="Page Image" src="/images/chapter-%d-%d.jpg">`, chapter, p)
			}
			b.WriteString(`</body></html>`)
			w.Write([]byte(b.String()))
		})
	}

	mux.HandleFunc("/images/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes:" + r.URL.Path))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
