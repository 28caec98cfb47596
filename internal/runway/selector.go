package runway

import (
	"fmt"

	"github.com/meltinglava/enor-autorwy/internal/metar"
	"github.com/meltinglava/enor-autorwy/internal/wind"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Selector picks the runway(s) in use from a report. A nil report means
// the airport was absent from the weather feed.
type Selector interface {
	Select(report *metar.Report) Decision
}

// NewSelector returns the selector implementing the airport's policy.
// The decision provider is only consulted by the confirm policy and may
// be nil for other policies.
func NewSelector(airport *Airport, provider DecisionProvider, log *logger.Logger) Selector {
	switch airport.Policy {
	case PolicyDualPair:
		return &dualPairSelector{airport: airport, logger: log.Named("dual-pair")}
	case PolicyConfirm:
		return &confirmSelector{airport: airport, provider: provider, logger: log.Named("confirm")}
	default:
		return &genericSelector{airport: airport, logger: log.Named("generic")}
	}
}

// genericSelector scores every configured end and picks the best
type genericSelector struct {
	airport *Airport
	logger  *logger.Logger
}

func (s *genericSelector) Select(report *metar.Report) Decision {
	a := s.airport

	if report == nil {
		return a.fallbackDecision(OutcomeNoData, "no wind data available")
	}
	if calm(report) {
		return a.fallbackDecision(OutcomeCalm, "calm winds")
	}
	if variableNoArc(report) {
		return a.fallbackDecision(OutcomeVariableWind,
			fmt.Sprintf("variable winds VRB%02dKT", report.Wind.Speed))
	}

	best, comps, err := scoreEnds(report.Wind, a.Ends)
	if err != nil {
		s.logger.Warn("Wind component calculation failed",
			logger.String("airport", a.ICAO),
			logger.Error(err))
		return a.fallbackDecision(OutcomeDegraded, "error calculating wind components")
	}

	outcome := categorize(comps.CrosswindKt)
	return Decision{
		ICAO:       a.ICAO,
		Runways:    []string{best.Ident},
		Outcome:    outcome,
		Rationale:  []string{windRationale(report.Wind, comps)},
		Components: &comps,
	}
}

// scoreEnds scores each end as headwind minus half the crosswind, so a
// tailwind never beats a crosswind-only option. Ties go to the end with
// the smaller crosswind.
func scoreEnds(w metar.Wind, ends []End) (End, wind.Components, error) {
	var (
		best      End
		bestComps wind.Components
		bestScore = -1 << 30
		minCross  = 1 << 30
		scored    bool
	)

	for _, end := range ends {
		comps, err := wind.Compute(w, end.HeadingTrue)
		if err != nil {
			return End{}, wind.Components{}, err
		}

		// score in half-knots to keep the comparison integral
		score := 2*comps.HeadwindKt - comps.CrosswindKt
		if !scored || score > bestScore || (score == bestScore && comps.CrosswindKt < minCross) {
			best = end
			bestComps = comps
			bestScore = score
			minCross = comps.CrosswindKt
			scored = true
		}
	}

	if !scored {
		return End{}, wind.Components{}, &wind.CalculationError{Reason: "no runway ends configured"}
	}
	return best, bestComps, nil
}

func windRationale(w metar.Wind, comps wind.Components) string {
	gust := ""
	if w.Gust > 0 {
		gust = fmt.Sprintf("G%02d", w.Gust)
	}
	return fmt.Sprintf("wind %03d%02d%sKT, headwind %dKT, crosswind %dKT",
		w.Direction, w.Speed, gust, comps.HeadwindKt, comps.CrosswindKt)
}
