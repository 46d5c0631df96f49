// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	LogLevel    string            `toml:"log_level"`
	Webshare    WebshareConfig    `toml:"webshare"`
	TMDB        TMDBConfig        `toml:"tmdb"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Scan        ScanConfig        `toml:"scan"`
	Preferences PreferencesConfig `toml:"preferences"`
}

// WebshareConfig holds file-hosting service credentials.
type WebshareConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// TMDBConfig holds the metadata catalog API settings.
type TMDBConfig struct {
	APIKey    string `toml:"api_key"`
	CachePath string `toml:"cache_path"`
}

// CatalogConfig holds the persisted catalog file locations.
type CatalogConfig struct {
	Path          string `toml:"path"`
	ManualPath    string `toml:"manual_path"`
	ScanCachePath string `toml:"scan_cache_path"`
}

// ScanConfig bounds one batch sweep.
type ScanConfig struct {
	MaxMovies int `toml:"max_movies"`
	MaxSeries int `toml:"max_series"`
}

// PreferencesConfig holds viewer playback preferences for stream ranking.
type PreferencesConfig struct {
	PreferredLanguage string `toml:"preferred_language"`
	MaxQuality        string `toml:"max_quality"`
	TargetQuality     string `toml:"target_quality"`
	PreferHDR         bool   `toml:"prefer_hdr"`
	MinAudioChannels  string `toml:"min_audio_channels"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.TMDB.CachePath == "" {
		c.TMDB.CachePath = "./data/metadata_cache.db"
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "./data/catalog.json"
	}
	if c.Catalog.ManualPath == "" {
		c.Catalog.ManualPath = "./data/manual_content.json"
	}
	if c.Catalog.ScanCachePath == "" {
		c.Catalog.ScanCachePath = "./data/scan_status.json"
	}
	if c.Scan.MaxMovies == 0 {
		c.Scan.MaxMovies = 20
	}
	if c.Scan.MaxSeries == 0 {
		c.Scan.MaxSeries = 15
	}
	if c.Preferences.PreferredLanguage == "" {
		c.Preferences.PreferredLanguage = "Czech"
	}
	if c.Preferences.MaxQuality == "" {
		c.Preferences.MaxQuality = "4K"
	}
	if c.Preferences.TargetQuality == "" {
		c.Preferences.TargetQuality = "1080p"
	}
	if c.Preferences.MinAudioChannels == "" {
		c.Preferences.MinAudioChannels = "2.0"
	}
}

// Validate checks that credentials required for network operations are set.
func (c *Config) Validate() error {
	if c.Webshare.Username == "" || c.Webshare.Password == "" {
		return fmt.Errorf("webshare: username and password are required")
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb: api_key is required")
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
