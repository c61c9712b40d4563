// Adapter for azoramoon.com. The reader is a long-strip page that lazy
// loads its images on scroll, so fetches for this site go through the
// headless browser. Extraction itself is still pure: by the time a
// document reaches the adapter the images are materialized, with the
// original URL in either src or data-src.
package azora

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/scraper/sites"
)

const minDescriptionLen = 100

type Adapter struct {
	baseURL string
}

func New() *Adapter {
	return &Adapter{baseURL: "https://azoramoon.com"}
}

// NewWithBaseURL is used by tests to point the adapter at a fixture server.
func NewWithBaseURL(baseURL string) *Adapter {
	return &Adapter{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (a *Adapter) Info() models.SiteInfo {
	return models.SiteInfo{ID: "azora", Name: "Azora Moon"}
}

func (a *Adapter) SeriesURL(slug string) string {
	return a.baseURL + "/series/" + slug
}

func (a *Adapter) Rendered() bool { return true }

func (a *Adapter) ExtractMangaList(doc *goquery.Document) []*models.SourceManga {
	var list []*models.SourceManga
	doc.Find(".series-card").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".series-card-title").Text())
		href := s.Find("a").AttrOr("href", "")
		slug := sites.LastPathSegment(href)
		if title == "" || slug == "" {
			return
		}
		list = append(list, &models.SourceManga{
			Title:    title,
			TitleAr:  title,
			Slug:     slug,
			CoverURL: sites.AbsoluteURL(a.baseURL, imageSrc(s.Find("img"))),
		})
	})
	return list
}

func (a *Adapter) ExtractMangaDetails(doc *goquery.Document, slug string) (*models.SourceManga, error) {
	title := strings.TrimSpace(doc.Find("h1.entry-title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		return nil, &sites.ExtractError{Site: "azora", Slug: slug, Reason: "series page has no title"}
	}

	cover := imageSrc(doc.Find(".series-cover img").First())

	var description string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) > minDescriptionLen {
			description = text
			return false
		}
		return true
	})

	var genres []string
	seen := make(map[string]bool)
	doc.Find(`a[href*="/genres/"]`).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" && !seen[text] {
			seen[text] = true
			genres = append(genres, text)
		}
	})

	return &models.SourceManga{
		Title:       title,
		TitleAr:     title,
		Slug:        slug,
		CoverURL:    sites.AbsoluteURL(a.baseURL, cover),
		Description: description,
		Status:      sites.ClassifyStatus(doc.Find(".series-status").First().Text()),
		Type:        sites.ClassifyType(doc.Find(".series-type").First().Text()),
		Genres:      genres,
	}, nil
}

// ExtractChapterList collects anchors under /series/{slug}/ and parses the
// trailing segment as the chapter number. Same dedupe policy as the other
// adapters: last occurrence wins, output sorted ascending.
func (a *Adapter) ExtractChapterList(doc *goquery.Document, slug string) []*models.SourceChapter {
	prefix := "/series/" + slug + "/"
	byNumber := make(map[float64]*models.SourceChapter)

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		path := strings.TrimPrefix(href, a.baseURL)
		if !strings.Contains(path, prefix) {
			return
		}
		number, ok := sites.ParseChapterNumber(sites.LastPathSegment(path))
		if !ok {
			return
		}
		byNumber[number] = &models.SourceChapter{
			Number: number,
			Title:  strings.TrimSpace(s.Text()),
			URL:    sites.AbsoluteURL(a.baseURL, href),
		}
	})

	return sites.SortChapters(byNumber)
}

// ExtractChapterPages picks up the long-strip reader images. Lazy-loaded
// images keep their real URL in data-src until scrolled into view; a
// rendered fetch usually resolves src, but data-src is still preferred as
// the canonical source.
func (a *Adapter) ExtractChapterPages(doc *goquery.Document) []*models.SourcePage {
	var pages []*models.SourcePage
	doc.Find(".reader-area img, img.chapter-image").Each(func(_ int, s *goquery.Selection) {
		src := imageSrc(s)
		if src == "" {
			return
		}
		pages = append(pages, &models.SourcePage{
			Number:   len(pages) + 1,
			ImageURL: sites.AbsoluteURL(a.baseURL, src),
		})
	})
	return pages
}

func imageSrc(s *goquery.Selection) string {
	if src := strings.TrimSpace(s.AttrOr("data-src", "")); src != "" {
		return src
	}
	return strings.TrimSpace(s.AttrOr("src", ""))
}
