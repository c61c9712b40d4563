package sites

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/salehdz/mangarid/internal/models"
)

// Status and type classification works by substring match against a fixed
// token vocabulary. The sites we ingest from publish both English and
// Arabic labels. An unmatched non-empty label falls back to the default
// and is logged, since a wrong classification corrupts catalog rows
// without any error signal.

var statusTokens = []struct {
	status string
	tokens []string
}{
	{"completed", []string{"completed", "complete", "finished", "مكتملة", "مكتمل"}},
	{"hiatus", []string{"hiatus", "on hold", "paused", "متوقفة", "متوقف"}},
	{"ongoing", []string{"ongoing", "releasing", "مستمرة", "مستمر"}},
}

var typeTokens = []struct {
	typ    string
	tokens []string
}{
	{"manhwa", []string{"manhwa", "مانهوا"}},
	{"manhua", []string{"manhua", "مانها"}},
	{"manga", []string{"manga", "مانجا"}},
}

// ClassifyStatus maps a raw status label to one of "ongoing", "completed"
// or "hiatus". Unmatched text defaults to "ongoing".
func ClassifyStatus(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, entry := range statusTokens {
		for _, token := range entry.tokens {
			if strings.Contains(normalized, token) {
				return entry.status
			}
		}
	}
	if normalized != "" {
		log.Printf("classify: unrecognized status %q, defaulting to ongoing", text)
	}
	return "ongoing"
}

// ClassifyType maps a raw type label to one of "manga", "manhwa" or
// "manhua". Unmatched text defaults to "manga".
func ClassifyType(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, entry := range typeTokens {
		for _, token := range entry.tokens {
			if strings.Contains(normalized, token) {
				return entry.typ
			}
		}
	}
	if normalized != "" {
		log.Printf("classify: unrecognized type %q, defaulting to manga", text)
	}
	return "manga"
}

// ParseChapterNumber parses the trailing path segment of a chapter link as
// a chapter number. Decimal chapters (5.5) are preserved.
func ParseChapterNumber(segment string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(segment), 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// SortChapters flattens a dedupe map into a slice sorted strictly
// ascending by chapter number.
func SortChapters(byNumber map[float64]*models.SourceChapter) []*models.SourceChapter {
	chapters := make([]*models.SourceChapter, 0, len(byNumber))
	for _, c := range byNumber {
		chapters = append(chapters, c)
	}
	sort.Slice(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})
	return chapters
}

// LastPathSegment returns the final segment of a URL path, ignoring a
// trailing slash.
func LastPathSegment(href string) string {
	trimmed := strings.TrimSuffix(href, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

// AbsoluteURL resolves href against the site's base URL when it is not
// already absolute.
func AbsoluteURL(baseURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(href, "/")
}
