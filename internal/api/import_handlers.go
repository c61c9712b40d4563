package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/scraper/importer"
	"github.com/salehdz/mangarid/internal/scraper/mirror"
	"github.com/salehdz/mangarid/internal/scraper/sites"
)

// handleImport runs a full series import synchronously and persists the
// result. Progress is broadcast over the websocket hub so the admin UI
// can follow along.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SiteID      string `json:"site_id"`
		Slug        string `json:"slug"`
		MaxChapters int    `json:"max_chapters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Slug == "" {
		RespondWithError(w, http.StatusBadRequest, "A series slug is required")
		return
	}

	adapter, ok := sites.Get(payload.SiteID)
	if !ok {
		RespondWithError(w, http.StatusBadRequest, "Unknown site")
		return
	}

	jobID := uuid.NewString()
	imp := s.newImporter(adapter, jobID)

	result, err := imp.Import(r.Context(), payload.Slug, importer.Options{
		MaxChapters: payload.MaxChapters,
	})
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Import failed: "+err.Error())
		return
	}

	manga, err := s.store.SaveImportResult(payload.SiteID, result)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to persist import")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"job_id":          jobID,
		"manga_id":        manga.ID,
		"title":           manga.Title,
		"chapters_count":  len(manga.Chapters),
		"chapters_failed": result.ChaptersFailed,
		"pages_attempted": result.PagesAttempted,
		"total_pages":     result.PagesImported,
	})
}

func (s *Server) newImporter(adapter sites.Adapter, jobID string) *importer.Importer {
	cfg := s.app.Config
	m := mirror.New(s.app.Storage, cfg.Scraper.UserAgent,
		adapter.SeriesURL(""),
		time.Duration(cfg.Scraper.ImageTimeout)*time.Second)

	return importer.New(s.app.Fetcher, adapter, m, importer.Config{
		ChapterDelay: time.Duration(cfg.Scraper.ChapterDelayMs) * time.Millisecond,
		SettleDelay:  time.Duration(cfg.Scraper.SettleDelayMs) * time.Millisecond,
		Progress: func(update models.ProgressUpdate) {
			update.JobID = jobID
			s.app.WsHub.BroadcastJSON(update)
		},
	})
}
