package sync_test

import (
	"context"
	"testing"

	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/scraper/sites"
	"github.com/salehdz/mangarid/internal/scraper/sites/olympus"
	"github.com/salehdz/mangarid/internal/store"
	"github.com/salehdz/mangarid/internal/sync"
	"github.com/salehdz/mangarid/internal/testutil"
)

func TestRefreshImportsOnlyMissingChapters(t *testing.T) {
	app := testutil.SetupTestApp(t)
	site := testutil.FixtureSite(t)
	sites.Register(olympus.NewWithBaseURL(site.URL))

	st := store.New(app.DB)

	// Seed the catalog with chapter 1 only, carrying a sentinel page URL
	// so we can prove the refresh does not touch it.
	seeded, err := st.SaveImportResult("olympus", &models.ImportResult{
		Manga: &models.SourceManga{
			Title:  "Test Series",
			Slug:   testutil.FixtureSlug,
			Status: "ongoing",
			Type:   "manhwa",
		},
		Chapters: []*models.ImportedChapter{
			{
				Chapter: &models.SourceChapter{Number: 1, URL: site.URL + "/series/" + testutil.FixtureSlug + "/1"},
				Pages:   []*models.SourcePage{{Number: 1, ImageURL: "/static/sentinel.jpg"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	svc := sync.NewService(app)
	if err := svc.RefreshManga(context.Background(), seeded); err != nil {
		t.Fatalf("RefreshManga failed: %v", err)
	}

	refreshed, err := st.GetMangaByID(seeded.ID)
	if err != nil {
		t.Fatalf("failed to reload manga: %v", err)
	}
	if len(refreshed.Chapters) != testutil.FixtureChapters {
		t.Fatalf("expected %d chapters after refresh, got %d",
			testutil.FixtureChapters, len(refreshed.Chapters))
	}

	// Chapter 1 was skipped: its sentinel page is untouched.
	pages, err := st.GetChapterPages(refreshed.Chapters[0].ID)
	if err != nil {
		t.Fatalf("failed to load chapter pages: %v", err)
	}
	if len(pages) != 1 || pages[0].ImageURL != "/static/sentinel.jpg" {
		t.Errorf("refresh re-imported an existing chapter: %+v", pages)
	}

	// The new chapters carry the full fixture page count.
	for _, ch := range refreshed.Chapters[1:] {
		if ch.PageCount != testutil.FixturePagesPerChapter {
			t.Errorf("chapter %g has %d pages, want %d",
				ch.Number, ch.PageCount, testutil.FixturePagesPerChapter)
		}
	}
}

func TestRefreshAllSurvivesUnknownSite(t *testing.T) {
	app := testutil.SetupTestApp(t)
	st := store.New(app.DB)

	if _, err := st.SaveImportResult("ghost-site", &models.ImportResult{
		Manga: &models.SourceManga{Title: "Orphan", Slug: "orphan", Status: "ongoing", Type: "manga"},
	}); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	// No adapter is registered for ghost-site; RefreshAll must log and
	// return instead of panicking.
	sync.NewService(app).RefreshAll()
}

func TestStartDisabledWithZeroInterval(t *testing.T) {
	app := testutil.SetupTestApp(t)
	app.Config.Scraper.RefreshInterval = 0

	if scheduler := sync.NewService(app).Start(); scheduler != nil {
		scheduler.Stop()
		t.Error("expected no scheduler when the interval is 0")
	}
}
