package azora

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture HTML: %v", err)
	}
	return doc
}

func TestExtractMangaDetails(t *testing.T) {
	a := New()
	doc := parseDoc(t, `
	<html><body>
	<h1 class="entry-title">Solo Farming</h1>
	<div class="series-cover"><img data-src="/covers/solo-farming.webp" src="/img/blank.gif" /></div>
	<span class="series-status">مستمرة</span>
	<span class="series-type">مانهوا</span>
	<p>A sufficiently long description paragraph that easily clears the one hundred character
	threshold required by the first-long-paragraph extraction heuristic in this adapter.</p>
	<a href="/genres/action">أكشن</a>
	</body></html>`)

	manga, err := a.ExtractMangaDetails(doc, "solo-farming")
	if err != nil {
		t.Fatalf("ExtractMangaDetails() failed: %v", err)
	}
	if manga.Title != "Solo Farming" {
		t.Errorf("expected title 'Solo Farming', got %q", manga.Title)
	}
	// data-src wins over the blank src placeholder.
	if manga.CoverURL != "https://azoramoon.com/covers/solo-farming.webp" {
		t.Errorf("unexpected cover url %q", manga.CoverURL)
	}
	if manga.Status != "ongoing" {
		t.Errorf("expected status 'ongoing', got %q", manga.Status)
	}
	if manga.Type != "manhwa" {
		t.Errorf("expected type 'manhwa', got %q", manga.Type)
	}
	if len(manga.Genres) != 1 || manga.Genres[0] != "أكشن" {
		t.Errorf("unexpected genres %v", manga.Genres)
	}
}

func TestExtractMangaDetailsNoTitle(t *testing.T) {
	a := New()
	doc := parseDoc(t, `<html><body><div>empty</div></body></html>`)
	if _, err := a.ExtractMangaDetails(doc, "solo-farming"); err == nil {
		t.Fatal("expected an error for a page without a title")
	}
}

func TestExtractChapterList(t *testing.T) {
	a := New()
	doc := parseDoc(t, `
	<html><body>
	<a href="https://azoramoon.com/series/solo-farming/12">Chapter 12</a>
	<a href="/series/solo-farming/11.5">Chapter 11.5</a>
	<a href="/series/solo-farming/11">Chapter 11</a>
	<a href="/series/solo-farming/about">About</a>
	</body></html>`)

	chapters := a.ExtractChapterList(doc, "solo-farming")
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}
	want := []float64{11, 11.5, 12}
	for i, c := range chapters {
		if c.Number != want[i] {
			t.Errorf("chapter %d: expected number %v, got %v", i, want[i], c.Number)
		}
	}
}

func TestExtractChapterPagesPrefersDataSrc(t *testing.T) {
	a := New()
	doc := parseDoc(t, `
	<html><body><div class="reader-area">
	<img data-src="/pages/1.webp" src="/img/blank.gif" />
	<img src="/pages/2.webp" />
	<img src="" />
	</div></body></html>`)

	pages := a.ExtractChapterPages(doc)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].ImageURL != "https://azoramoon.com/pages/1.webp" {
		t.Errorf("expected data-src to win, got %q", pages[0].ImageURL)
	}
	if pages[1].Number != 2 {
		t.Errorf("expected document-order numbering, got %d", pages[1].Number)
	}
}
