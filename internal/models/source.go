package models

// SiteInfo contains static information about a source-site adapter.
type SiteInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SourceManga is the transient record a site adapter extracts for one
// series. Slug is the stable identity on the source site; the catalog
// assigns a numeric id only after persistence.
type SourceManga struct {
	Title       string   `json:"title"`
	TitleAr     string   `json:"title_ar,omitempty"`
	Slug        string   `json:"slug"`
	CoverURL    string   `json:"cover_url,omitempty"`
	ThumbURL    string   `json:"thumb_url,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Type        string   `json:"type"`
	Genres      []string `json:"genres,omitempty"`
}

// SourceChapter is one chapter entry from a series page. Number supports
// decimal chapters (5.5) and need not be contiguous.
type SourceChapter struct {
	Number float64 `json:"number"`
	Title  string  `json:"title,omitempty"`
	URL    string  `json:"url"`
}

// SourcePage is one page image of a chapter. Number is assigned from
// document order, 1-based; ImageURL starts as the remote URL and is
// replaced by the mirrored URL during import.
type SourcePage struct {
	Number   int    `json:"number"`
	ImageURL string `json:"image_url"`
}

// ImportedChapter pairs a chapter with the pages that were actually
// mirrored for it. Pages may be empty when the chapter failed.
type ImportedChapter struct {
	Chapter *SourceChapter `json:"chapter"`
	Pages   []*SourcePage  `json:"pages"`
}

// ImportResult is the full output of one import run. The counters reflect
// what was attempted versus what succeeded so callers can detect silent
// degradation of the source site.
type ImportResult struct {
	Manga             *SourceManga       `json:"manga"`
	Chapters          []*ImportedChapter `json:"chapters"`
	ChaptersAttempted int                `json:"chapters_attempted"`
	ChaptersFailed    int                `json:"chapters_failed"`
	PagesAttempted    int                `json:"pages_attempted"`
	PagesImported     int                `json:"pages_imported"`
}

// TotalPages returns the number of pages that made it into the result.
func (r *ImportResult) TotalPages() int {
	n := 0
	for _, c := range r.Chapters {
		n += len(c.Pages)
	}
	return n
}
