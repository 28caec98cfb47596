package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`   // Application logging settings
	Weather  WeatherConfig  `toml:"wx"`        // METAR feed fetching and caching settings
	Airports AirportsConfig `toml:"airports"`  // Runway database, preferences and policies
	RwyStore RwyStoreConfig `toml:"rwy_store"` // EuroScope .rwy file store settings
	Server   ServerConfig   `toml:"server"`    // Optional HTTP API settings
	Storage  StorageConfig  `toml:"storage"`   // Decision history persistence settings
	Confirm  ConfirmConfig  `toml:"confirm"`   // Manual-selection resolution settings
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// WeatherConfig contains METAR feed configuration
type WeatherConfig struct {
	NorwayFeedURL          string `toml:"norway_feed_url"`           // Batch feed for Norwegian (EN) stations, one METAR per line
	StationFeedURLTemplate string `toml:"station_feed_url_template"` // Per-station feed URL; %s is replaced by the ICAO code
	RequestTimeoutSeconds  int    `toml:"request_timeout_seconds"`   // HTTP timeout per request
	MaxRetries             int    `toml:"max_retries"`               // Retry attempts beyond the first request
	CacheExpiryMinutes     int    `toml:"cache_expiry_minutes"`      // Feed freshness TTL
}

// AirportsConfig contains the static airport tables
type AirportsConfig struct {
	RunwaysDBPath     string                  `toml:"runways_db_path"`    // Path to the runway database (EuroScope runway format)
	MagneticVariation bool                    `toml:"magnetic_variation"` // Correct database headings from magnetic to true via WMM
	Preferred         map[string]string       `toml:"preferred_runways"`  // ICAO -> preferred fallback runway ident
	Ignored           []string                `toml:"ignored"`            // ICAO codes excluded from selection entirely
	Policies          map[string]PolicyConfig `toml:"policies"`           // ICAO -> non-generic selection policy
}

// PolicyConfig assigns a non-generic selection policy to an airport
type PolicyConfig struct {
	Type          string              `toml:"type"`           // "generic", "dual-pair" or "confirm"
	PrimaryPair   []string            `toml:"primary_pair"`   // dual-pair: runway idents of the primary pair
	SecondaryPair []string            `toml:"secondary_pair"` // dual-pair: runway idents of the secondary pair
	Advisory      []AdvisoryEndConfig `toml:"advisory"`       // confirm: the two canonical directions compared for the advisory
}

// AdvisoryEndConfig is one canonical direction for the confirm policy's
// advisory comparison
type AdvisoryEndConfig struct {
	Ident   string `toml:"ident"`   // label used in the suggestion (e.g. "01")
	Heading int    `toml:"heading"` // degrees true
}

// RwyStoreConfig contains the .rwy text store configuration
type RwyStoreConfig struct {
	Dir string `toml:"dir"` // Directory scanned for *.rwy files to update
}

// ServerConfig contains the optional HTTP API configuration
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// StorageConfig contains decision history persistence configuration
type StorageConfig struct {
	Enabled    bool   `toml:"enabled"`
	SQLitePath string `toml:"sqlite_path"` // Path to the SQLite decision history database
}

// ConfirmConfig controls how manual selections are resolved
type ConfirmConfig struct {
	Interactive          bool   `toml:"interactive"`           // Prompt on stdin (CLI mode); otherwise use the default configuration
	DefaultConfiguration string `toml:"default_configuration"` // Configuration name used when not interactive (e.g. "19 SPO")
}

// Default returns the configuration defaults applied before decoding
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Weather: WeatherConfig{
			NorwayFeedURL:          "https://metar.vatsim.net/EN",
			StationFeedURLTemplate: "https://metar.vatsim.net/metar.php?id=%s",
			RequestTimeoutSeconds:  10,
			MaxRetries:             2,
			CacheExpiryMinutes:     5,
		},
		Airports: AirportsConfig{RunwaysDBPath: "runway.txt"},
		RwyStore: RwyStoreConfig{Dir: "."},
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Confirm:  ConfirmConfig{Interactive: true, DefaultConfiguration: "19 SPO"},
	}
}

// Load reads and decodes the configuration file at the given path
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	config := Default()
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations
// in order of preference
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,         // User-specified path (if provided)
		"configs/config.toml", // configs/ folder
		"config.toml",         // Root directory
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	var lastErr error
	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				lastErr = fmt.Errorf("failed to load config from %s: %w", path, err)
				continue
			}
			return config, nil
		}
		lastErr = fmt.Errorf("config file not found: %s", path)
	}

	return nil, fmt.Errorf("config file not found in any of the expected locations: %v. Last error: %w", uniquePaths, lastErr)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	if err := c.ValidateWeather(); err != nil {
		return err
	}
	if err := c.ValidateAirports(); err != nil {
		return err
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port: %d", c.Server.Port)
		}
	}

	if c.Storage.Enabled && c.Storage.SQLitePath == "" {
		return fmt.Errorf("sqlite_path is required when storage is enabled")
	}

	return nil
}

// ValidateWeather validates the weather feed configuration
func (c *Config) ValidateWeather() error {
	if c.Weather.NorwayFeedURL == "" {
		return fmt.Errorf("norway_feed_url cannot be empty")
	}
	if c.Weather.StationFeedURLTemplate == "" {
		return fmt.Errorf("station_feed_url_template cannot be empty")
	}
	if c.Weather.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be greater than 0")
	}
	if c.Weather.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be 0 or greater")
	}
	if c.Weather.CacheExpiryMinutes <= 0 {
		return fmt.Errorf("cache_expiry_minutes must be greater than 0")
	}
	return nil
}

// ValidateAirports validates the airport tables configuration
func (c *Config) ValidateAirports() error {
	if c.Airports.RunwaysDBPath == "" {
		return fmt.Errorf("runways_db_path cannot be empty")
	}

	for icao, policy := range c.Airports.Policies {
		switch policy.Type {
		case "", "generic":
		case "dual-pair":
			if len(policy.PrimaryPair) != 2 || len(policy.SecondaryPair) != 2 {
				return fmt.Errorf("dual-pair policy for %s needs two primary and two secondary runway idents", icao)
			}
		case "confirm":
			if n := len(policy.Advisory); n != 0 && n != 2 {
				return fmt.Errorf("confirm policy for %s needs exactly two advisory directions, got %d", icao, n)
			}
		default:
			return fmt.Errorf("unknown policy type %q for %s", policy.Type, icao)
		}
	}

	return nil
}
