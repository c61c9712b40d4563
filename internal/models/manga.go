// This file defines the core data structures (models) for our application.
// These structs represent the manga catalog as it is persisted.

package models

import "time"

// Manga represents one series in the catalog.
type Manga struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	SiteID      string     `json:"site_id"`
	Title       string     `json:"title"`
	TitleAr     string     `json:"title_ar,omitempty"`
	Description string     `json:"description,omitempty"`
	CoverURL    string     `json:"cover_url,omitempty"`
	ThumbURL    string     `json:"thumb_url,omitempty"`
	Status      string     `json:"status"` // "ongoing", "completed", "hiatus"
	Type        string     `json:"type"`   // "manga", "manhwa", "manhua"
	Genres      []string   `json:"genres,omitempty"`
	Chapters    []*Chapter `json:"chapters,omitempty"` // omitempty hides it when not loaded
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Chapter represents a single chapter of a manga. Number is a REAL in the
// schema so decimal chapters (5.5) survive persistence.
type Chapter struct {
	ID        int64     `json:"id"`
	MangaID   int64     `json:"manga_id"`
	Number    float64   `json:"number"`
	Title     string    `json:"title,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"-"`
}

// Page is a single image within a chapter. Number is the 1-based reading
// order.
type Page struct {
	ID        int64  `json:"id"`
	ChapterID int64  `json:"chapter_id"`
	Number    int    `json:"number"`
	ImageURL  string `json:"image_url"`
}
