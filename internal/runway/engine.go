package runway

import (
	"github.com/meltinglava/enor-autorwy/internal/metar"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Engine runs runway selection for every airport in the registry.
type Engine struct {
	registry *Registry
	provider DecisionProvider
	logger   *logger.Logger
}

// NewEngine creates a selection engine. The decision provider resolves
// manual selections for confirm-policy airports and may be nil when no
// such airport is configured.
func NewEngine(registry *Registry, provider DecisionProvider, log *logger.Logger) *Engine {
	return &Engine{
		registry: registry,
		provider: provider,
		logger:   log.Named("runway-engine"),
	}
}

// Select runs the airport's policy against its report. A nil report means
// the airport was absent from the weather feed.
func (e *Engine) Select(airport *Airport, report *metar.Report) Decision {
	return NewSelector(airport, e.provider, e.logger).Select(report)
}

// SelectAll selects runways for every registered airport, in database
// order, against the given reports keyed by ICAO. Airports without a
// report get their fallback decision; one airport's degraded state never
// affects another's.
func (e *Engine) SelectAll(reports map[string]*metar.Report) []Decision {
	airports := e.registry.All()
	decisions := make([]Decision, 0, len(airports))

	for _, airport := range airports {
		report := reports[airport.ICAO]
		decision := e.Select(airport, report)

		e.logger.Debug("Runway selected",
			logger.String("airport", airport.ICAO),
			logger.Strings("runways", decision.Runways),
			logger.String("outcome", string(decision.Outcome)))

		decisions = append(decisions, decision)
	}

	return decisions
}
