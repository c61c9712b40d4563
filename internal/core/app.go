package core

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/salehdz/mangarid/internal/config"
	"github.com/salehdz/mangarid/internal/db"
	"github.com/salehdz/mangarid/internal/scraper/fetch"
	"github.com/salehdz/mangarid/internal/storage"
	"github.com/salehdz/mangarid/internal/websocket"
)

// App holds the core components of the application shared between the
// server, the import pipeline and the background refresh job.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	WsHub   *websocket.Hub
	Fetcher *fetch.Session
	Storage storage.Store
	Version string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, and running migrations.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database); err != nil {
		// We can't proceed without a valid database schema.
		// Close the DB connection before failing.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	app := &App{
		Config:  cfg,
		DB:      database,
		WsHub:   hub,
		Fetcher: fetch.NewSession(cfg.Scraper.UserAgent,
			time.Duration(cfg.Scraper.RequestTimeout)*time.Second,
			time.Duration(cfg.Scraper.RenderTimeout)*time.Second),
		Storage: storage.NewLocal(cfg.Storage.Path, cfg.Storage.BaseURL),
		Version: version,
	}

	log.Println("Core application setup complete.")
	return app, nil
}

// Close gracefully closes the application's resources, like the DB
// connection and the headless browser.
func (a *App) Close() {
	if a.Fetcher != nil {
		a.Fetcher.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
