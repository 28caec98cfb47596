package weather

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/meltinglava/enor-autorwy/internal/metar"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Cache holds parsed reports per feed URL with a freshness TTL. The clock
// is injected so expiry is testable without sleeping.
type Cache struct {
	clock   clockwork.Clock
	ttl     time.Duration
	logger  *logger.Logger
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	fetchedAt time.Time
	reports   map[string]*metar.Report
}

// NewCache creates a report cache with the given TTL.
func NewCache(ttl time.Duration, clock clockwork.Clock, log *logger.Logger) *Cache {
	return &Cache{
		clock:   clock,
		ttl:     ttl,
		logger:  log.Named("weather-cache"),
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached reports for a feed key if still fresh.
func (c *Cache) Get(key string) (map[string]*metar.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Since(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry.reports, true
}

// Set stores freshly fetched reports for a feed key.
func (c *Cache) Set(key string, reports map[string]*metar.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.entries[key] = cacheEntry{fetchedAt: now, reports: reports}

	c.logger.Debug("Reports cached",
		logger.String("feed", key),
		logger.Int("stations", len(reports)),
		logger.Time("expires_at", now.Add(c.ttl)))
}

// Invalidate clears all cached entries.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.logger.Info("Weather cache invalidated")
}
