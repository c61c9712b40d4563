// Data access layer for the catalog. All SQL lives here, keeping the
// import pipeline and the API handlers free of queries.

package store

import (
	"database/sql"
)

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
