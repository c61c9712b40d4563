package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/salehdz/mangarid/internal/models"
)

var ErrNotFound = errors.New("not found")

// SaveImportResult persists one import run in a single transaction. The
// manga row is upserted by its (site_id, slug) identity, so re-importing
// the same series updates it in place. Chapters the catalog already has
// are left untouched; only new chapter numbers are inserted, along with
// their pages.
func (s *Store) SaveImportResult(siteID string, result *models.ImportResult) (*models.Manga, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	mangaID, err := upsertManga(tx, siteID, result.Manga)
	if err != nil {
		return nil, err
	}

	if err := replaceGenres(tx, mangaID, result.Manga.Genres); err != nil {
		return nil, err
	}

	existing, err := chapterNumbers(tx, mangaID)
	if err != nil {
		return nil, err
	}

	for _, ch := range result.Chapters {
		if existing[ch.Chapter.Number] {
			continue
		}
		// Chapters that failed during the run carry no pages. Skipping
		// them here lets the next refresh retry instead of recording an
		// empty chapter.
		if len(ch.Pages) == 0 {
			continue
		}
		chapterID, err := insertChapter(tx, mangaID, ch.Chapter)
		if err != nil {
			return nil, err
		}
		for _, page := range ch.Pages {
			if _, err := tx.Exec(
				"INSERT INTO pages (chapter_id, number, image_url) VALUES (?, ?, ?)",
				chapterID, page.Number, page.ImageURL,
			); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetMangaByID(mangaID)
}

func upsertManga(tx *sql.Tx, siteID string, m *models.SourceManga) (int64, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM manga WHERE site_id = ? AND slug = ?", siteID, m.Slug).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := tx.Exec(`
			INSERT INTO manga (slug, site_id, title, title_ar, description, cover_url, thumb_url, status, type, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.Slug, siteID, m.Title, m.TitleAr, m.Description, m.CoverURL, m.ThumbURL, m.Status, m.Type,
			time.Now(), time.Now())
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	} else if err != nil {
		return 0, err
	}

	_, err = tx.Exec(`
		UPDATE manga SET title = ?, title_ar = ?, description = ?, cover_url = ?, thumb_url = ?, status = ?, type = ?, updated_at = ?
		WHERE id = ?`,
		m.Title, m.TitleAr, m.Description, m.CoverURL, m.ThumbURL, m.Status, m.Type, time.Now(), id)
	return id, err
}

func replaceGenres(tx *sql.Tx, mangaID int64, genres []string) error {
	if _, err := tx.Exec("DELETE FROM manga_genres WHERE manga_id = ?", mangaID); err != nil {
		return err
	}
	for _, name := range genres {
		var genreID int64
		err := tx.QueryRow("SELECT id FROM genres WHERE name = ?", name).Scan(&genreID)
		if err == sql.ErrNoRows {
			res, err := tx.Exec("INSERT INTO genres (name) VALUES (?)", name)
			if err != nil {
				return err
			}
			genreID, _ = res.LastInsertId()
		} else if err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO manga_genres (manga_id, genre_id) VALUES (?, ?)",
			mangaID, genreID,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertChapter(tx *sql.Tx, mangaID int64, ch *models.SourceChapter) (int64, error) {
	res, err := tx.Exec(
		"INSERT INTO chapters (manga_id, number, title, source_url, created_at) VALUES (?, ?, ?, ?, ?)",
		mangaID, ch.Number, ch.Title, ch.URL, time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func chapterNumbers(tx *sql.Tx, mangaID int64) (map[float64]bool, error) {
	rows, err := tx.Query("SELECT number FROM chapters WHERE manga_id = ?", mangaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numbers := make(map[float64]bool)
	for rows.Next() {
		var n float64
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers[n] = true
	}
	return numbers, rows.Err()
}

// GetChapterNumbers returns the set of chapter numbers the catalog holds
// for a manga. The refresh job turns this into a skip set.
func (s *Store) GetChapterNumbers(mangaID int64) (map[float64]bool, error) {
	rows, err := s.db.Query("SELECT number FROM chapters WHERE manga_id = ?", mangaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numbers := make(map[float64]bool)
	for rows.Next() {
		var n float64
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers[n] = true
	}
	return numbers, rows.Err()
}

// ListManga returns all catalog entries ordered by most recently updated,
// without their chapter lists.
func (s *Store) ListManga() ([]*models.Manga, error) {
	rows, err := s.db.Query(`
		SELECT id, slug, site_id, title, title_ar, description, cover_url, thumb_url, status, type, created_at, updated_at
		FROM manga ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Manga
	for rows.Next() {
		m, err := scanManga(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetMangaByID returns one manga with its genres and chapters. Chapters
// are ordered by number ascending and carry their page counts.
func (s *Store) GetMangaByID(id int64) (*models.Manga, error) {
	row := s.db.QueryRow(`
		SELECT id, slug, site_id, title, title_ar, description, cover_url, thumb_url, status, type, created_at, updated_at
		FROM manga WHERE id = ?`, id)
	m, err := scanManga(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if m.Genres, err = s.mangaGenres(id); err != nil {
		return nil, err
	}
	if m.Chapters, err = s.mangaChapters(id); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMangaBySlug resolves a manga by its source-site identity.
func (s *Store) GetMangaBySlug(siteID, slug string) (*models.Manga, error) {
	row := s.db.QueryRow(`
		SELECT id, slug, site_id, title, title_ar, description, cover_url, thumb_url, status, type, created_at, updated_at
		FROM manga WHERE site_id = ? AND slug = ?`, siteID, slug)
	m, err := scanManga(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return m, nil
}

// GetChapterPages returns the pages of a chapter in reading order.
func (s *Store) GetChapterPages(chapterID int64) ([]*models.Page, error) {
	var exists int64
	err := s.db.QueryRow("SELECT id FROM chapters WHERE id = ?", chapterID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT id, chapter_id, number, image_url FROM pages WHERE chapter_id = ? ORDER BY number ASC",
		chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.ChapterID, &p.Number, &p.ImageURL); err != nil {
			return nil, err
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

func (s *Store) mangaGenres(mangaID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT g.name FROM genres g
		JOIN manga_genres mg ON mg.genre_id = g.id
		WHERE mg.manga_id = ? ORDER BY g.name ASC`, mangaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		genres = append(genres, name)
	}
	return genres, rows.Err()
}

func (s *Store) mangaChapters(mangaID int64) ([]*models.Chapter, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.manga_id, c.number, COALESCE(c.title, ''), COALESCE(c.source_url, ''), c.created_at,
		       (SELECT COUNT(*) FROM pages p WHERE p.chapter_id = c.id) AS page_count
		FROM chapters c
		WHERE c.manga_id = ? ORDER BY c.number ASC`, mangaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*models.Chapter
	for rows.Next() {
		var c models.Chapter
		if err := rows.Scan(&c.ID, &c.MangaID, &c.Number, &c.Title, &c.SourceURL, &c.CreatedAt, &c.PageCount); err != nil {
			return nil, err
		}
		chapters = append(chapters, &c)
	}
	return chapters, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManga(row rowScanner) (*models.Manga, error) {
	var m models.Manga
	var titleAr, description, coverURL, thumbURL sql.NullString
	err := row.Scan(&m.ID, &m.Slug, &m.SiteID, &m.Title, &titleAr, &description,
		&coverURL, &thumbURL, &m.Status, &m.Type, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.TitleAr = titleAr.String
	m.Description = description.String
	m.CoverURL = coverURL.String
	m.ThumbURL = thumbURL.String
	return &m, nil
}
