package weather

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/meltinglava/enor-autorwy/internal/metar"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Service combines the feed client and cache into the single collaborator
// the rest of the system talks to.
type Service struct {
	config Config
	client *Client
	cache  *Cache
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewService creates a weather service using the real clock.
func NewService(config Config, log *logger.Logger) *Service {
	return NewServiceWithClock(config, clockwork.NewRealClock(), log)
}

// NewServiceWithClock creates a weather service with an injected clock.
func NewServiceWithClock(config Config, clock clockwork.Clock, log *logger.Logger) *Service {
	ttl := time.Duration(config.CacheExpiryMinutes) * time.Minute
	return &Service{
		config: config,
		client: NewClient(config, log),
		cache:  NewCache(ttl, clock, log),
		clock:  clock,
		logger: log.Named("weather-service"),
	}
}

// Reports returns the parsed reports for the requested stations, keyed by
// ICAO. Norwegian stations are served from the batch feed, others from
// per-station requests. Stations whose fetch or parse failed are simply
// absent from the result.
func (s *Service) Reports(icaos []string) map[string]*metar.Report {
	reports := make(map[string]*metar.Report, len(icaos))

	var norwegian, other []string
	for _, icao := range icaos {
		if strings.HasPrefix(icao, "EN") {
			norwegian = append(norwegian, icao)
		} else {
			other = append(other, icao)
		}
	}

	if len(norwegian) > 0 {
		feed := s.feedReports(s.config.NorwayFeedURL, s.client.FetchNorwayFeed)
		for _, icao := range norwegian {
			if report, ok := feed[icao]; ok {
				reports[icao] = report
			}
		}
	}

	for _, icao := range other {
		icao := icao
		feed := s.feedReports(icao, func() (string, error) {
			return s.client.FetchStation(icao)
		})
		if report, ok := feed[icao]; ok {
			reports[icao] = report
		}
	}

	s.logger.Info("Weather reports resolved",
		logger.Int("requested", len(icaos)),
		logger.Int("available", len(reports)))

	return reports
}

// Report returns the parsed report for a single station, if available.
func (s *Service) Report(icao string) (*metar.Report, bool) {
	reports := s.Reports([]string{icao})
	report, ok := reports[icao]
	return report, ok
}

// Invalidate drops all cached feed data, forcing the next request to hit
// the network.
func (s *Service) Invalidate() {
	s.cache.Invalidate()
}

// feedReports returns the parsed reports for one feed, from cache when
// fresh, otherwise fetching and parsing. A failed fetch yields an empty
// map; the failure never propagates past the feed boundary.
func (s *Service) feedReports(key string, fetch func() (string, error)) map[string]*metar.Report {
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	text, err := fetch()
	if err != nil {
		s.logger.Warn("METAR feed unavailable",
			logger.String("feed", key),
			logger.Error(err))
		return map[string]*metar.Report{}
	}

	reports := metar.ParseBatch(text, s.clock.Now().UTC(), s.logger)
	s.cache.Set(key, reports)
	return reports
}
