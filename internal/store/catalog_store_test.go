package store_test

import (
	"testing"

	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/store"
	"github.com/salehdz/mangarid/internal/testutil"
)

func sampleResult() *models.ImportResult {
	return &models.ImportResult{
		Manga: &models.SourceManga{
			Title:       "Solo Farming",
			TitleAr:     "الزراعة المنفردة",
			Slug:        "solo-farming",
			CoverURL:    "/static/covers/olympus/solo-farming/cover-a.jpg",
			ThumbURL:    "/static/covers/olympus/solo-farming/cover-a-thumb.jpg",
			Description: "A farmer in a tower.",
			Status:      "ongoing",
			Type:        "manhwa",
			Genres:      []string{"action", "fantasy"},
		},
		Chapters: []*models.ImportedChapter{
			{
				Chapter: &models.SourceChapter{Number: 1, URL: "https://olympustaff.com/series/solo-farming/1"},
				Pages: []*models.SourcePage{
					{Number: 1, ImageURL: "/static/pages/1/1.jpg"},
					{Number: 2, ImageURL: "/static/pages/1/2.jpg"},
				},
			},
			{
				Chapter: &models.SourceChapter{Number: 2.5, URL: "https://olympustaff.com/series/solo-farming/2.5"},
				Pages: []*models.SourcePage{
					{Number: 1, ImageURL: "/static/pages/2.5/1.jpg"},
				},
			},
		},
		ChaptersAttempted: 2,
		PagesAttempted:    3,
		PagesImported:     3,
	}
}

func TestSaveImportResult(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))

	manga, err := s.SaveImportResult("olympus", sampleResult())
	if err != nil {
		t.Fatalf("SaveImportResult failed: %v", err)
	}

	if manga.ID == 0 {
		t.Fatal("expected a persisted id")
	}
	if manga.Slug != "solo-farming" || manga.SiteID != "olympus" {
		t.Errorf("identity not persisted: %q / %q", manga.Slug, manga.SiteID)
	}
	if manga.Status != "ongoing" || manga.Type != "manhwa" {
		t.Errorf("classification not persisted: %q / %q", manga.Status, manga.Type)
	}
	if len(manga.Genres) != 2 {
		t.Errorf("expected 2 genres, got %v", manga.Genres)
	}
	if len(manga.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(manga.Chapters))
	}
	if manga.Chapters[0].Number != 1 || manga.Chapters[1].Number != 2.5 {
		t.Errorf("chapters out of order: %g, %g", manga.Chapters[0].Number, manga.Chapters[1].Number)
	}
	if manga.Chapters[0].PageCount != 2 || manga.Chapters[1].PageCount != 1 {
		t.Errorf("wrong page counts: %d, %d", manga.Chapters[0].PageCount, manga.Chapters[1].PageCount)
	}
}

func TestSaveImportResultUpsertsBySlug(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))

	first, err := s.SaveImportResult("olympus", sampleResult())
	if err != nil {
		t.Fatalf("first SaveImportResult failed: %v", err)
	}

	// A re-import with a new chapter and a changed status must update the
	// existing row, keep the old chapters and add only the new one.
	second := sampleResult()
	second.Manga.Status = "completed"
	second.Chapters = append(second.Chapters, &models.ImportedChapter{
		Chapter: &models.SourceChapter{Number: 3, URL: "https://olympustaff.com/series/solo-farming/3"},
		Pages:   []*models.SourcePage{{Number: 1, ImageURL: "/static/pages/3/1.jpg"}},
	})

	updated, err := s.SaveImportResult("olympus", second)
	if err != nil {
		t.Fatalf("second SaveImportResult failed: %v", err)
	}
	if updated.ID != first.ID {
		t.Errorf("re-import created a new row: %d != %d", updated.ID, first.ID)
	}
	if updated.Status != "completed" {
		t.Errorf("metadata was not refreshed: %q", updated.Status)
	}
	if len(updated.Chapters) != 3 {
		t.Errorf("expected 3 chapters after re-import, got %d", len(updated.Chapters))
	}

	list, err := s.ListManga()
	if err != nil {
		t.Fatalf("ListManga failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("re-import must not duplicate catalog entries, got %d", len(list))
	}
}

func TestSaveImportResultSameSlugDifferentSites(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))

	if _, err := s.SaveImportResult("olympus", sampleResult()); err != nil {
		t.Fatalf("SaveImportResult failed: %v", err)
	}
	if _, err := s.SaveImportResult("azora", sampleResult()); err != nil {
		t.Fatalf("SaveImportResult failed: %v", err)
	}

	list, err := s.ListManga()
	if err != nil {
		t.Fatalf("ListManga failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("the same slug on two sites is two entries, got %d", len(list))
	}
}

func TestSaveImportResultSkipsFailedChapters(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))

	result := sampleResult()
	result.Chapters = append(result.Chapters, &models.ImportedChapter{
		Chapter: &models.SourceChapter{Number: 4, URL: "https://olympustaff.com/series/solo-farming/4"},
		// No pages: the chapter failed during import.
	})

	manga, err := s.SaveImportResult("olympus", result)
	if err != nil {
		t.Fatalf("SaveImportResult failed: %v", err)
	}
	if len(manga.Chapters) != 2 {
		t.Errorf("a failed chapter must not be persisted, got %d chapters", len(manga.Chapters))
	}
}

func TestGetMangaBySlug(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))

	saved, err := s.SaveImportResult("olympus", sampleResult())
	if err != nil {
		t.Fatalf("SaveImportResult failed: %v", err)
	}

	found, err := s.GetMangaBySlug("olympus", "solo-farming")
	if err != nil {
		t.Fatalf("GetMangaBySlug failed: %v", err)
	}
	if found.ID != saved.ID {
		t.Errorf("wrong manga: %d != %d", found.ID, saved.ID)
	}

	if _, err := s.GetMangaBySlug("olympus", "no-such-series"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMangaByIDNotFound(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))
	if _, err := s.GetMangaByID(99); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetChapterPages(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))

	manga, err := s.SaveImportResult("olympus", sampleResult())
	if err != nil {
		t.Fatalf("SaveImportResult failed: %v", err)
	}

	pages, err := s.GetChapterPages(manga.Chapters[0].ID)
	if err != nil {
		t.Fatalf("GetChapterPages failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.Number != i+1 {
			t.Errorf("page %d has number %d", i, p.Number)
		}
	}

	if _, err := s.GetChapterPages(9999); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound for a missing chapter, got %v", err)
	}
}

func TestGetChapterNumbers(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))

	manga, err := s.SaveImportResult("olympus", sampleResult())
	if err != nil {
		t.Fatalf("SaveImportResult failed: %v", err)
	}

	numbers, err := s.GetChapterNumbers(manga.ID)
	if err != nil {
		t.Fatalf("GetChapterNumbers failed: %v", err)
	}
	if len(numbers) != 2 || !numbers[1] || !numbers[2.5] {
		t.Errorf("unexpected number set: %v", numbers)
	}
}
