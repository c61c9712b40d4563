// Package mirror copies remote images into our own durable storage so the
// catalog survives the source site's hosting. Downloads always send a
// Referer for the source origin; most of these image hosts reject
// hotlinked requests without one.
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/salehdz/mangarid/internal/storage"
)

// MirrorError is returned when a single asset could not be downloaded or
// uploaded. Callers decide whether to abort or skip; the import pipeline
// skips.
type MirrorError struct {
	URL string
	Key string
	Err error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("mirror %s -> %s: %v", e.URL, e.Key, e.Err)
}

func (e *MirrorError) Unwrap() error { return e.Err }

// Mirror downloads remote assets and re-uploads them to storage.
type Mirror struct {
	client    *http.Client
	store     storage.Store
	userAgent string
	referer   string
}

func New(store storage.Store, userAgent, referer string, timeout time.Duration) *Mirror {
	return &Mirror{
		client:    &http.Client{Timeout: timeout},
		store:     store,
		userAgent: userAgent,
		referer:   referer,
	}
}

// Image downloads remoteURL and stores the bytes under key, returning the
// canonical URL of the stored copy.
func (m *Mirror) Image(ctx context.Context, remoteURL, key string) (string, error) {
	data, contentType, err := m.download(ctx, remoteURL)
	if err != nil {
		return "", &MirrorError{URL: remoteURL, Key: key, Err: err}
	}
	url, err := m.store.Put(ctx, key, data, contentType)
	if err != nil {
		return "", &MirrorError{URL: remoteURL, Key: key, Err: err}
	}
	return url, nil
}

// Cover mirrors a series cover and additionally derives a resized JPEG
// thumbnail for listing pages. A thumbnail failure is not fatal; the
// cover URL is still returned.
func (m *Mirror) Cover(ctx context.Context, remoteURL, keyBase string) (coverURL, thumbURL string, err error) {
	data, contentType, err := m.download(ctx, remoteURL)
	if err != nil {
		return "", "", &MirrorError{URL: remoteURL, Key: keyBase, Err: err}
	}

	coverURL, err = m.store.Put(ctx, keyBase+ext(contentType), data, contentType)
	if err != nil {
		return "", "", &MirrorError{URL: remoteURL, Key: keyBase, Err: err}
	}

	thumb, thumbErr := generateThumbnail(data)
	if thumbErr != nil {
		// The full cover is stored; a missing thumbnail only degrades
		// listing pages.
		return coverURL, "", nil
	}
	thumbURL, thumbErr = m.store.Put(ctx, keyBase+"-thumb.jpg", thumb, "image/jpeg")
	if thumbErr != nil {
		return coverURL, "", nil
	}
	return coverURL, thumbURL, nil
}

func (m *Mirror) download(ctx context.Context, remoteURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", m.userAgent)
	req.Header.Set("Referer", m.referer)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

// PageKey builds the storage key for one chapter page. The random suffix
// keeps keys collision-free across concurrent imports of the same slug.
func PageKey(siteID, slug string, chapter float64, page int) string {
	return fmt.Sprintf("pages/%s/%s/%s/%d-%s",
		siteID, slug, formatChapterNumber(chapter), page, shortID())
}

// CoverKey builds the storage key base (no extension) for a series cover.
func CoverKey(siteID, slug string) string {
	return fmt.Sprintf("covers/%s/%s/cover-%s", siteID, slug, shortID())
}

func formatChapterNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func shortID() string {
	return uuid.NewString()[:8]
}

func ext(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
