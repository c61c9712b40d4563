// Package importer orchestrates a full series import: fetch the series
// page, extract details and the chapter list, then walk each chapter
// fetching and mirroring its pages. A failed chapter never aborts the run;
// it is recorded with no pages and the import moves on.
package importer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/scraper/fetch"
	"github.com/salehdz/mangarid/internal/scraper/mirror"
	"github.com/salehdz/mangarid/internal/scraper/sites"
)

// Fetcher is the page retrieval surface the importer needs. *fetch.Session
// satisfies it; tests substitute a canned implementation.
type Fetcher interface {
	FetchStatic(ctx context.Context, pageURL string) (string, error)
	FetchRendered(ctx context.Context, pageURL string, opts fetch.RenderOptions) (string, error)
}

// Config tunes one importer instance.
type Config struct {
	// ChapterDelay is the pause between consecutive chapter fetches. It is
	// never zero in production; hammering a source site gets us blocked.
	ChapterDelay time.Duration
	// SettleDelay is passed through to rendered fetches.
	SettleDelay time.Duration
	// Progress, when set, receives updates as the run advances.
	Progress func(models.ProgressUpdate)
}

// Options select what a single Import run covers.
type Options struct {
	// MaxChapters caps the run to the N lowest-numbered chapters. Zero
	// means no cap.
	MaxChapters int
	// SkipChapters excludes chapters by number, used by the refresh job to
	// import only what the catalog is missing.
	SkipChapters map[float64]bool
}

// Importer drives the import pipeline for one source site.
type Importer struct {
	fetcher Fetcher
	adapter sites.Adapter
	mirror  *mirror.Mirror
	cfg     Config
}

func New(fetcher Fetcher, adapter sites.Adapter, m *mirror.Mirror, cfg Config) *Importer {
	return &Importer{fetcher: fetcher, adapter: adapter, mirror: m, cfg: cfg}
}

// Import runs the full pipeline for one series slug. It fails only when
// the series page itself cannot be fetched or parsed; everything below
// that degrades per chapter or per page.
func (im *Importer) Import(ctx context.Context, slug string, opts Options) (*models.ImportResult, error) {
	siteID := im.adapter.Info().ID
	seriesURL := im.adapter.SeriesURL(slug)

	im.report(slug, fmt.Sprintf("Fetching series page for %s", slug), 0, false)

	doc, err := im.fetchDocument(ctx, seriesURL)
	if err != nil {
		return nil, err
	}

	manga, err := im.adapter.ExtractMangaDetails(doc, slug)
	if err != nil {
		return nil, err
	}

	// Cover mirroring is best effort. The import is still useful with the
	// remote cover URL left in place.
	if manga.CoverURL != "" {
		coverURL, thumbURL, err := im.mirror.Cover(ctx, manga.CoverURL, mirror.CoverKey(siteID, slug))
		if err != nil {
			log.Printf("importer: cover mirror failed for %s/%s: %v", siteID, slug, err)
		} else {
			manga.CoverURL = coverURL
			manga.ThumbURL = thumbURL
		}
	}

	chapters := im.adapter.ExtractChapterList(doc, slug)
	chapters = selectChapters(chapters, opts)

	result := &models.ImportResult{Manga: manga}

	for i, ch := range chapters {
		if i > 0 && im.cfg.ChapterDelay > 0 {
			if err := sleepCtx(ctx, im.cfg.ChapterDelay); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		progress := float64(i) / float64(len(chapters)) * 100
		im.report(slug, fmt.Sprintf("Importing chapter %s (%d/%d)",
			trimChapterNumber(ch.Number), i+1, len(chapters)), progress, false)

		result.ChaptersAttempted++
		pages, err := im.importChapter(ctx, siteID, slug, ch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("importer: chapter %s of %s/%s failed: %v",
				trimChapterNumber(ch.Number), siteID, slug, err)
			result.ChaptersFailed++
			result.Chapters = append(result.Chapters, &models.ImportedChapter{Chapter: ch})
			continue
		}
		result.PagesAttempted += pages.attempted
		result.PagesImported += len(pages.imported)
		result.Chapters = append(result.Chapters, &models.ImportedChapter{
			Chapter: ch,
			Pages:   pages.imported,
		})
	}

	im.report(slug, fmt.Sprintf("Imported %d/%d chapters, %d pages",
		result.ChaptersAttempted-result.ChaptersFailed, result.ChaptersAttempted,
		result.PagesImported), 100, true)

	return result, nil
}

type chapterPages struct {
	attempted int
	imported  []*models.SourcePage
}

// importChapter fetches one chapter page and mirrors its images. A page
// that fails to mirror is skipped; its siblings still make it in.
func (im *Importer) importChapter(ctx context.Context, siteID, slug string, ch *models.SourceChapter) (*chapterPages, error) {
	doc, err := im.fetchDocument(ctx, ch.URL)
	if err != nil {
		return nil, err
	}

	extracted := im.adapter.ExtractChapterPages(doc)
	out := &chapterPages{attempted: len(extracted)}

	for _, page := range extracted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key := mirror.PageKey(siteID, slug, ch.Number, page.Number)
		storedURL, err := im.mirror.Image(ctx, page.ImageURL, key)
		if err != nil {
			log.Printf("importer: page %d of chapter %s (%s/%s) failed: %v",
				page.Number, trimChapterNumber(ch.Number), siteID, slug, err)
			continue
		}
		out.imported = append(out.imported, &models.SourcePage{
			Number:   page.Number,
			ImageURL: storedURL,
		})
	}
	return out, nil
}

// fetchDocument retrieves a page with the strategy the adapter requires
// and parses it.
func (im *Importer) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var html string
	var err error
	if im.adapter.Rendered() {
		html, err = im.fetcher.FetchRendered(ctx, pageURL, fetch.RenderOptions{
			ScrollToBottom: true,
			SettleDelay:    im.cfg.SettleDelay,
		})
	} else {
		html, err = im.fetcher.FetchStatic(ctx, pageURL)
	}
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (im *Importer) report(slug, message string, progress float64, done bool) {
	if im.cfg.Progress == nil {
		return
	}
	im.cfg.Progress(models.ProgressUpdate{
		Slug:     slug,
		Message:  message,
		Progress: progress,
		Done:     done,
	})
}

// selectChapters applies the skip set and then the cap. The input is
// already sorted ascending, so a cap keeps the lowest-numbered chapters.
func selectChapters(chapters []*models.SourceChapter, opts Options) []*models.SourceChapter {
	if len(opts.SkipChapters) > 0 {
		kept := chapters[:0:0]
		for _, ch := range chapters {
			if !opts.SkipChapters[ch.Number] {
				kept = append(kept, ch)
			}
		}
		chapters = kept
	}
	if opts.MaxChapters > 0 && len(chapters) > opts.MaxChapters {
		chapters = chapters[:opts.MaxChapters]
	}
	return chapters
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func trimChapterNumber(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
