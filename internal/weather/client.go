package weather

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Client handles HTTP requests to the METAR feed endpoints
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new METAR feed client
func NewClient(config Config, log *logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
		},
		logger: log.Named("weather-client"),
	}
}

// FetchNorwayFeed fetches the batch feed carrying every Norwegian
// station, one raw METAR per line.
func (c *Client) FetchNorwayFeed() (string, error) {
	return c.fetchWithRetry(c.config.NorwayFeedURL, "EN*")
}

// FetchStation fetches the raw METAR for a single station.
func (c *Client) FetchStation(icao string) (string, error) {
	url := fmt.Sprintf(c.config.StationFeedURLTemplate, icao)
	return c.fetchWithRetry(url, icao)
}

// fetchWithRetry performs an HTTP request with retry logic and
// exponential backoff
func (c *Client) fetchWithRetry(url, station string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoffDuration := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			c.logger.Info("Retrying METAR fetch",
				logger.String("station", station),
				logger.Int("attempt", attempt),
				logger.String("backoff", backoffDuration.String()))
			time.Sleep(backoffDuration)
		}

		resp, err := c.httpClient.Get(url)
		if err != nil {
			lastErr = fmt.Errorf("error making request to METAR feed: %w", err)
			c.logger.Warn("METAR feed request failed, may retry",
				logger.String("station", station),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			c.logger.Warn("METAR feed returned non-OK status, may retry",
				logger.String("station", station),
				logger.Int("status_code", resp.StatusCode),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		if err != nil {
			lastErr = fmt.Errorf("error reading METAR feed response: %w", err)
			c.logger.Warn("Failed to read METAR feed response, may retry",
				logger.String("station", station),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		if attempt > 0 {
			c.logger.Info("METAR fetch succeeded after retries",
				logger.String("station", station),
				logger.Int("attempts_needed", attempt+1))
		}
		return string(body), nil
	}

	c.logger.Error("All attempts to fetch METAR data failed",
		logger.String("station", station),
		logger.Error(lastErr),
		logger.Int("max_attempts", c.config.MaxRetries+1))
	return "", lastErr
}
