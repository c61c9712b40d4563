package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/salehdz/mangarid/internal/models"
	"github.com/salehdz/mangarid/internal/scraper/sites"
	"github.com/salehdz/mangarid/internal/store"
)

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, sites.GetAll())
}

func (s *Server) handleListManga(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListManga()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve catalog")
		return
	}
	if list == nil {
		list = []*models.Manga{}
	}
	RespondWithJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetManga(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "mangaID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid manga ID")
		return
	}

	manga, err := s.store.GetMangaByID(id)
	if err == store.ErrNotFound {
		RespondWithError(w, http.StatusNotFound, "Manga not found")
		return
	} else if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve manga")
		return
	}
	RespondWithJSON(w, http.StatusOK, manga)
}

func (s *Server) handleGetChapterPages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "chapterID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chapter ID")
		return
	}

	pages, err := s.store.GetChapterPages(id)
	if err == store.ErrNotFound {
		RespondWithError(w, http.StatusNotFound, "Chapter not found")
		return
	} else if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve pages")
		return
	}
	RespondWithJSON(w, http.StatusOK, pages)
}
