// Adapter for olympustaff.com, a static-HTML source. Chapter links live on
// the series page itself and are scoped under /series/{slug}/.
package olympus

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/scraper/sites"
)

// minDescriptionLen is the paragraph-length threshold for the description
// heuristic: the first paragraph-like node longer than this is taken as the
// series description. Deliberately approximate; the site has no dedicated
// description element.
const minDescriptionLen = 100

type Adapter struct {
	baseURL string
}

func New() *Adapter {
	return &Adapter{baseURL: "https://olympustaff.com"}
}

// NewWithBaseURL is used by tests to point the adapter at a fixture server.
func NewWithBaseURL(baseURL string) *Adapter {
	return &Adapter{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (a *Adapter) Info() models.SiteInfo {
	return models.SiteInfo{ID: "olympus", Name: "OlympusStaff"}
}

func (a *Adapter) SeriesURL(slug string) string {
	return a.baseURL + "/series/" + slug
}

func (a *Adapter) Rendered() bool { return false }

// ExtractMangaList returns partial records (title, slug, cover) for every
// series card on a listing page.
func (a *Adapter) ExtractMangaList(doc *goquery.Document) []*models.SourceManga {
	var list []*models.SourceManga
	doc.Find(".manga-item").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".manga-title").Text())
		href := s.Find("a").AttrOr("href", "")
		slug := sites.LastPathSegment(href)
		if title == "" || slug == "" {
			return
		}
		list = append(list, &models.SourceManga{
			Title:    title,
			TitleAr:  title,
			Slug:     slug,
			CoverURL: sites.AbsoluteURL(a.baseURL, s.Find("img").AttrOr("src", "")),
		})
	})
	return list
}

// ExtractMangaDetails builds the full series record from a series page.
// A page without a title is structurally unusable and yields an
// ExtractError; everything else degrades to defaults.
func (a *Adapter) ExtractMangaDetails(doc *goquery.Document, slug string) (*models.SourceManga, error) {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return nil, &sites.ExtractError{Site: "olympus", Slug: slug, Reason: "series page has no title"}
	}

	cover := doc.Find(`img[alt="Manga Image"]`).AttrOr("src", "")

	// First paragraph-like node longer than the threshold.
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
	var statusText, typeText string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		text := strings.TrimSpace(s.Text())
		switch {
		case strings.Contains(href, "/genre/") || strings.Contains(href, "/tag/"):
			if text != "" && !seen[text] {
				seen[text] = true
				genres = append(genres, text)
			}
		case strings.Contains(href, "/status/"):
			statusText = text
		case strings.Contains(href, "/type/"):
			typeText = text
		}
	})

	return &models.SourceManga{
		Title:       title,
		TitleAr:     title,
		Slug:        slug,
		CoverURL:    sites.AbsoluteURL(a.baseURL, cover),
		Description: description,
		Status:      sites.ClassifyStatus(statusText),
		Type:        sites.ClassifyType(typeText),
		Genres:      genres,
	}, nil
}

// ExtractChapterList scans anchors scoped under the series' own path
// prefix and parses the trailing path segment as the chapter number.
// Duplicate numbers are deduplicated last-wins: later anchors in reading
// order are more likely the canonical link. The result is sorted strictly
// ascending.
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

// ExtractChapterPages selects the chapter's page images and numbers them
// 1..N in document order, ignoring any numbering the source embeds in alt
// or id attributes. Returns empty when nothing matches.
func (a *Adapter) ExtractChapterPages(doc *goquery.Document) []*models.SourcePage {
	var pages []*models.SourcePage
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		alt := strings.ToLower(s.AttrOr("alt", ""))
		if src == "" || strings.Contains(src, "logo") || strings.Contains(src, "icon") {
			return
		}
		if !strings.Contains(alt, "image") && !strings.Contains(alt, "page") && !strings.Contains(src, "chapter") {
			return
		}
		pages = append(pages, &models.SourcePage{
			Number:   len(pages) + 1,
			ImageURL: sites.AbsoluteURL(a.baseURL, src),
		})
	})
	return pages
}

