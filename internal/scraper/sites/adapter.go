// Package sites defines the source-site adapter contract and the registry
// of available adapters. An adapter knows how to locate a series on its
// site and how to extract structured records from the site's markup; it
// never performs network I/O itself, so every extractor can be exercised
// against captured HTML fixtures.
package sites

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/salehdz/mangarid/internal/models"
)

// ExtractError reports markup the adapter cannot parse structurally. "No
// matches found" is not an extract error; extractors return empty
// collections for that.
type ExtractError struct {
	Site   string
	Slug   string
	Reason string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s/%s: %s", e.Site, e.Slug, e.Reason)
}

// Adapter is the contract every source-site connector implements.
//
// The four Extract methods are pure functions over a parsed document. They
// return empty collections when nothing matches; ExtractMangaDetails is the
// only one that fails, because a details page without a title leaves
// nothing meaningful to import.
type Adapter interface {
	Info() models.SiteInfo

	// SeriesURL returns the absolute URL of the series page for a slug.
	SeriesURL(slug string) string

	// Rendered reports whether this site's pages need a scripted-rendering
	// fetch to materialize their content.
	Rendered() bool

	ExtractMangaList(doc *goquery.Document) []*models.SourceManga
	ExtractMangaDetails(doc *goquery.Document, slug string) (*models.SourceManga, error)
	ExtractChapterList(doc *goquery.Document, slug string) []*models.SourceChapter
	ExtractChapterPages(doc *goquery.Document) []*models.SourcePage
}

var registry = make(map[string]Adapter)

// Register adds a new adapter to the registry. It's called at startup.
func Register(a Adapter) {
	info := a.Info()
	if _, exists := registry[info.ID]; exists {
		// Panic is appropriate here as it's a developer error during setup.
		panic(fmt.Sprintf("site adapter with ID '%s' is already registered", info.ID))
	}
	registry[info.ID] = a
}

// Get returns an adapter by its ID.
func Get(id string) (Adapter, bool) {
	a, ok := registry[id]
	return a, ok
}

// GetAll returns a list of information for all registered adapters.
func GetAll() []models.SiteInfo {
	var infos []models.SiteInfo
	for _, a := range registry {
		infos = append(infos, a.Info())
	}
	return infos
}

// UnregisterAll clears the registry. Used by tests.
func UnregisterAll() {
	registry = make(map[string]Adapter)
}
