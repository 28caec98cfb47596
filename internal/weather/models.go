// Package weather fetches raw METAR feeds and hands parsed reports to the
// selection core. The core never performs I/O itself: it only ever sees a
// map of parsed reports, with "absent from the map" as the sole signal
// that an airport has no data.
package weather

// Config represents the weather feed configuration
type Config struct {
	// Batch endpoint returning one METAR per line for all Norwegian
	// stations (ICAO prefix EN).
	NorwayFeedURL string `toml:"norway_feed_url"`
	// Per-station endpoint template; %s is replaced by the ICAO code.
	StationFeedURLTemplate string `toml:"station_feed_url_template"`

	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
	MaxRetries            int `toml:"max_retries"`
	CacheExpiryMinutes    int `toml:"cache_expiry_minutes"`
}

// DefaultConfig returns the default weather feed configuration
func DefaultConfig() Config {
	return Config{
		NorwayFeedURL:          "https://metar.vatsim.net/EN",
		StationFeedURLTemplate: "https://metar.vatsim.net/metar.php?id=%s",
		RequestTimeoutSeconds:  10,
		MaxRetries:             2,
		CacheExpiryMinutes:     5,
	}
}
