package runway

import (
	"fmt"

	"github.com/meltinglava/enor-autorwy/internal/metar"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// dualPairSelector handles airports with two independent runway pairs
// (e.g. ENZV 18/36 and 10/28). The primary pair is used as long as its
// best end stays at or below the crosswind threshold; above it the
// secondary pair's best end is accepted regardless of its own crosswind.
type dualPairSelector struct {
	airport *Airport
	logger  *logger.Logger
}

func (s *dualPairSelector) Select(report *metar.Report) Decision {
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

	primary, primaryComps, err := scoreEnds(report.Wind, a.PrimaryPair)
	if err != nil {
		s.logger.Warn("Wind component calculation failed",
			logger.String("airport", a.ICAO),
			logger.Error(err))
		return a.fallbackDecision(OutcomeDegraded, "error calculating wind components")
	}

	if primaryComps.CrosswindKt <= crosswindThresholdKt {
		return Decision{
			ICAO:       a.ICAO,
			Runways:    []string{primary.Ident},
			Outcome:    categorize(primaryComps.CrosswindKt),
			Rationale:  []string{windRationale(report.Wind, primaryComps)},
			Components: &primaryComps,
		}
	}

	// Primary pair exceeds the crosswind limit: accept whatever the
	// secondary pair yields, there is no further fallback tier.
	secondary, secondaryComps, err := scoreEnds(report.Wind, a.SecondaryPair)
	if err != nil {
		s.logger.Warn("Wind component calculation failed on secondary pair",
			logger.String("airport", a.ICAO),
			logger.Error(err))
		return a.fallbackDecision(OutcomeDegraded, "error calculating wind components")
	}

	return Decision{
		ICAO:    a.ICAO,
		Runways: []string{secondary.Ident},
		Outcome: categorize(secondaryComps.CrosswindKt),
		Rationale: []string{
			fmt.Sprintf("crosswind %dKT on primary pair exceeds %dKT, using secondary pair",
				primaryComps.CrosswindKt, crosswindThresholdKt),
			windRationale(report.Wind, secondaryComps),
		},
		Components: &secondaryComps,
	}
}
