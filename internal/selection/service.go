// Package selection coordinates one full update run: fetch reports for
// every registered airport, run the selection engine, persist the results
// to the .rwy store and the decision history.
package selection

import (
	"fmt"
	"sync"
	"time"

	"github.com/meltinglava/enor-autorwy/internal/runway"
	"github.com/meltinglava/enor-autorwy/internal/rwyfile"
	"github.com/meltinglava/enor-autorwy/internal/storage/sqlite"
	"github.com/meltinglava/enor-autorwy/internal/weather"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Service wires the registry, engine and collaborators together
type Service struct {
	registry *runway.Registry
	engine   *runway.Engine
	weather  *weather.Service
	store    *rwyfile.Store
	history  *sqlite.DecisionStorage // nil when persistence is disabled
	logger   *logger.Logger

	mu     sync.RWMutex
	latest []runway.Decision
	ranAt  time.Time
}

// NewService creates the coordinating service. history may be nil.
func NewService(
	registry *runway.Registry,
	engine *runway.Engine,
	weatherService *weather.Service,
	store *rwyfile.Store,
	history *sqlite.DecisionStorage,
	log *logger.Logger,
) *Service {
	return &Service{
		registry: registry,
		engine:   engine,
		weather:  weatherService,
		store:    store,
		history:  history,
		logger:   log.Named("selection"),
	}
}

// Run performs one full update: fetch, select, persist. The returned
// decisions are also retained as the latest run for API consumers.
func (s *Service) Run() ([]runway.Decision, error) {
	start := time.Now()

	airports := s.registry.All()
	icaos := make([]string, 0, len(airports))
	for _, airport := range airports {
		icaos = append(icaos, airport.ICAO)
	}

	reports := s.weather.Reports(icaos)
	decisions := s.engine.SelectAll(reports)

	var storeErr error
	for _, decision := range decisions {
		if err := s.store.Apply(decision); err != nil {
			// Keep going: one airport's store failure must not block
			// the rest of the run.
			s.logger.Error("Failed to persist decision to rwy store",
				logger.String("airport", decision.ICAO),
				logger.Error(err))
			storeErr = err
		}
		if s.history != nil {
			if err := s.history.SaveDecision(decision, start); err != nil {
				s.logger.Error("Failed to save decision history",
					logger.String("airport", decision.ICAO),
					logger.Error(err))
			}
		}
	}

	s.mu.Lock()
	s.latest = decisions
	s.ranAt = start
	s.mu.Unlock()

	s.logger.Info("Update run completed",
		logger.Int("airports", len(airports)),
		logger.Int("with_data", len(reports)),
		logger.Duration("duration", time.Since(start)))

	if storeErr != nil {
		return decisions, fmt.Errorf("one or more rwy store updates failed: %w", storeErr)
	}
	return decisions, nil
}

// Refresh invalidates the weather cache and performs a new run.
func (s *Service) Refresh() ([]runway.Decision, error) {
	s.weather.Invalidate()
	return s.Run()
}

// Latest returns the decisions from the most recent run and its
// timestamp.
func (s *Service) Latest() ([]runway.Decision, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.ranAt
}

// LatestFor returns the most recent decision for one airport.
func (s *Service) LatestFor(icao string) (runway.Decision, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, decision := range s.latest {
		if decision.ICAO == icao {
			return decision, true
		}
	}
	return runway.Decision{}, false
}

// History returns stored decisions for one airport, newest first.
func (s *Service) History(icao string, limit int) ([]sqlite.DecisionRecord, error) {
	if s.history == nil {
		return nil, fmt.Errorf("decision history storage is disabled")
	}
	return s.history.GetDecisions(icao, limit)
}
