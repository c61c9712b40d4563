// Package sync periodically re-checks every catalog entry against its
// source site and imports only the chapters the catalog is missing.
package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/salehdz/mangarid/internal/core"
	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/scraper/importer"
	"github.com/salehdz/mangarid/internal/scraper/mirror"
	"github.com/salehdz/mangarid/internal/scraper/sites"
	"github.com/salehdz/mangarid/internal/store"
)

// Service holds the dependencies for the catalog refresh job.
type Service struct {
	app *core.App
	st  *store.Store
}

// NewService creates a new refresh service.
func NewService(app *core.App) *Service {
	return &Service{
		app: app,
		st:  store.New(app.DB),
	}
}

// Start schedules the periodic refresh. A zero interval disables it.
func (s *Service) Start() *gocron.Scheduler {
	interval := s.app.Config.Scraper.RefreshInterval
	if interval == 0 {
		log.Println("Refresh interval is 0, scheduled catalog refresh is disabled.")
		return nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	log.Printf("Scheduling catalog refresh to run every %d hours.", interval)
	_, err := scheduler.Every(interval).Hours().Do(s.RefreshAll)
	if err != nil {
		log.Printf("Error scheduling catalog refresh: %v", err)
	}

	scheduler.StartAsync()
	return scheduler
}

// RefreshAll walks the whole catalog. A failure on one entry is logged
// and does not stop the others.
func (s *Service) RefreshAll() {
	log.Println("Running scheduled catalog refresh...")
	list, err := s.st.ListManga()
	if err != nil {
		log.Printf("Refresh Error: Failed to list catalog: %v", err)
		return
	}

	for _, manga := range list {
		if err := s.RefreshManga(context.Background(), manga); err != nil {
			log.Printf("Refresh Error: %s/%s: %v", manga.SiteID, manga.Slug, err)
		}
	}
	log.Println("Finished scheduled catalog refresh.")
}

// RefreshManga re-imports one series, skipping every chapter number the
// catalog already holds. Metadata (status, description, cover) is
// refreshed either way.
func (s *Service) RefreshManga(ctx context.Context, manga *models.Manga) error {
	adapter, ok := sites.Get(manga.SiteID)
	if !ok {
		return fmt.Errorf("no adapter registered for site %q", manga.SiteID)
	}

	skip, err := s.st.GetChapterNumbers(manga.ID)
	if err != nil {
		return err
	}

	imp := s.newImporter(adapter)
	result, err := imp.Import(ctx, manga.Slug, importer.Options{SkipChapters: skip})
	if err != nil {
		return err
	}

	if len(result.Chapters) > 0 {
		log.Printf("Refresh: found %d new chapters for %s/%s.", len(result.Chapters), manga.SiteID, manga.Slug)
	}

	_, err = s.st.SaveImportResult(manga.SiteID, result)
	return err
}

func (s *Service) newImporter(adapter sites.Adapter) *importer.Importer {
	cfg := s.app.Config
	m := mirror.New(s.app.Storage, cfg.Scraper.UserAgent,
		adapter.SeriesURL(""),
		time.Duration(cfg.Scraper.ImageTimeout)*time.Second)

	return importer.New(s.app.Fetcher, adapter, m, importer.Config{
		ChapterDelay: time.Duration(cfg.Scraper.ChapterDelayMs) * time.Millisecond,
		SettleDelay:  time.Duration(cfg.Scraper.SettleDelayMs) * time.Millisecond,
		Progress: func(update models.ProgressUpdate) {
			update.JobID = "refresh"
			s.app.WsHub.BroadcastJSON(update)
		},
	})
}
