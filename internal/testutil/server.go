// A shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/salehdz/mangarid/internal/api"
	"github.com/salehdz/mangarid/internal/config"
	"github.com/salehdz/mangarid/internal/core"
	"github.com/salehdz/mangarid/internal/scraper/fetch"
	"github.com/salehdz/mangarid/internal/scraper/sites"
	"github.com/salehdz/mangarid/internal/scraper/sites/olympus"
	"github.com/salehdz/mangarid/internal/storage"
	"github.com/salehdz/mangarid/internal/websocket"
)

func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	db := SetupTestDB(t)

	cfg := &config.Config{}
	cfg.Storage.Path = t.TempDir()
	cfg.Storage.BaseURL = "/static"
	cfg.Scraper.UserAgent = "test-agent/1.0"
	cfg.Scraper.RequestTimeout = 5
	cfg.Scraper.ImageTimeout = 5

	hub := websocket.NewHub()
	go hub.Run()

	app := &core.App{
		Config:  cfg,
		DB:      db,
		WsHub:   hub,
		Fetcher: fetch.NewSession(cfg.Scraper.UserAgent, 5*time.Second, 5*time.Second),
		Storage: storage.NewLocal(cfg.Storage.Path, cfg.Storage.BaseURL),
		Version: "test",
	}

	t.Cleanup(func() {
		app.Fetcher.Close()
		sites.UnregisterAll()
	})
	return app
}

// SetupTestServer initializes a full core.App and api.Server for
// integration testing. The olympus adapter is registered against a local
// fixture site so imports run without touching the network.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB) {
	t.Helper()
	app := SetupTestApp(t)

	site := FixtureSite(t)
	sites.Register(olympus.NewWithBaseURL(site.URL))

	server := api.NewServer(app)
	return server, app.DB
}
