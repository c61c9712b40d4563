package db_test

import (
	"path/filepath"
	"testing"

	"github.com/salehdz/mangarid/internal/db"
)

func TestInitDBAndMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.InitDB(path)
	if err != nil {
		t.Fatalf("InitDB() failed: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}

	// Re-running migrations must be a no-op, not an error.
	if err := db.RunMigrations(database); err != nil {
		t.Fatalf("RunMigrations() second run failed: %v", err)
	}

	// The catalog tables should exist.
	for _, table := range []string{"manga", "genres", "manga_genres", "chapters", "pages", "users", "sessions"} {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %q to exist: %v", table, err)
		}
	}
}
