// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Storage struct {
		Path    string `mapstructure:"path"`     // directory mirrored assets are written to
		BaseURL string `mapstructure:"base_url"` // public URL prefix the assets are served under
	} `mapstructure:"storage"`
	Scraper struct {
		UserAgent       string `mapstructure:"user_agent"`
		RequestTimeout  int    `mapstructure:"request_timeout"`  // seconds, static fetches
		ImageTimeout    int    `mapstructure:"image_timeout"`    // seconds, asset downloads
		RenderTimeout   int    `mapstructure:"render_timeout"`   // seconds, headless browser navigation
		SettleDelayMs   int    `mapstructure:"settle_delay_ms"`  // wait after scrolling a rendered page
		ChapterDelayMs  int    `mapstructure:"chapter_delay_ms"` // pacing between chapters of one import
		RefreshInterval int    `mapstructure:"refresh_interval"` // hours between scheduled re-checks, 0 disables
	} `mapstructure:"scraper"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "MANGARID_"
	// prefix. e.g., MANGARID_DATABASE_PATH overrides the `database.path` key.
	viper.SetEnvPrefix("MANGARID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("database.path", "./mangarid.db")
	viper.SetDefault("storage.path", "./data/media")
	viper.SetDefault("storage.base_url", "/static")
	viper.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	viper.SetDefault("scraper.request_timeout", 15)
	viper.SetDefault("scraper.image_timeout", 30)
	viper.SetDefault("scraper.render_timeout", 60)
	viper.SetDefault("scraper.settle_delay_ms", 1500)
	// The inter-chapter delay is a rate-limit courtesy to the source site.
	// It is configurable but must not be removed entirely.
	viper.SetDefault("scraper.chapter_delay_ms", 1500)
	viper.SetDefault("scraper.refresh_interval", 6)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
