package runway

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/meltinglava/enor-autorwy/internal/metar"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Configuration is one of the canonical runway configurations an operator
// may pick when manual selection is required.
type Configuration struct {
	Name    string
	Runways []string // one or two ends; for SPO departure end first
	Mode    Mode
}

// Configurations returns the canonical configurations offered to the
// operator, in presentation order.
func Configurations() []Configuration {
	return []Configuration{
		{Name: "19 MPO", Runways: []string{"19L", "19R"}, Mode: ModeMixed},
		{Name: "01 MPO", Runways: []string{"01L", "01R"}, Mode: ModeMixed},
		{Name: "19 SPO", Runways: []string{"19L", "19R"}, Mode: ModeSegregated},
		{Name: "01 SPO", Runways: []string{"01L", "01R"}, Mode: ModeSegregated},
		{Name: "19 SRO", Runways: []string{"19R"}, Mode: ModeSingle},
		{Name: "01 SRO", Runways: []string{"01L"}, Mode: ModeSingle},
	}
}

// DecisionProvider resolves a manual-selection outcome to a concrete
// configuration. Implementations live outside the core (interactive
// prompt, configured default); the policy places no timeout or retry
// semantics on the call.
type DecisionProvider interface {
	ResolveConfiguration(icao string, conditions []string) (Configuration, error)
}

// rvrRe matches a runway-visual-range group such as "R01L/0450" in the
// raw report text.
var rvrRe = regexp.MustCompile(`\bR\d{2}[LRC]?/`)

// confirmSelector handles airports whose real-world operation requires
// coordination beyond wind alone (e.g. ENGM). Any fired trigger defers
// the choice to the decision provider; otherwise normal generic scoring
// applies, with an advisory suggestion between the two canonical
// directions attached.
type confirmSelector struct {
	airport  *Airport
	provider DecisionProvider
	logger   *logger.Logger
}

// triggerConditions evaluates the fixed battery of conditions that
// require manual runway selection. Each fired condition contributes a
// human-readable description.
func triggerConditions(report *metar.Report) []string {
	var conditions []string

	if report.Wind.Variable {
		conditions = append(conditions, "Variable winds")
	}
	if strings.Contains(report.Raw, "FG") {
		conditions = append(conditions, "Fog reported")
	}
	if report.VisibilityM <= 2000 {
		conditions = append(conditions, fmt.Sprintf("Low visibility (%dm)", report.VisibilityM))
	}
	if rvrRe.MatchString(report.Raw) {
		conditions = append(conditions, "RVR reported")
	}
	if report.TemperatureC <= 4 {
		conditions = append(conditions, fmt.Sprintf("Low temperature (%d°C)", report.TemperatureC))
	}
	if report.Precipitation != nil && report.Precipitation.Kind == metar.Snow {
		conditions = append(conditions, "Snow reported")
	}
	if lowestCloudAtOrBelow(report.Clouds, 200) {
		conditions = append(conditions, "Low cloud layer (200ft or below)")
	}

	return conditions
}

func lowestCloudAtOrBelow(clouds []metar.Cloud, limitFt int) bool {
	for _, c := range clouds {
		if c.HeightFt <= limitFt {
			return true
		}
	}
	return false
}

func (s *confirmSelector) Select(report *metar.Report) Decision {
	a := s.airport

	if report == nil {
		return a.fallbackDecision(OutcomeNoData, "no wind data available")
	}
	if calm(report) {
		return a.fallbackDecision(OutcomeCalm, "calm winds")
	}

	if conditions := triggerConditions(report); len(conditions) > 0 {
		return s.manualSelection(report, conditions)
	}

	// No trigger fired: attach the advisory suggestion between the two
	// canonical directions, then score the configured ends normally.
	suggested := s.advisorySuggestion(report.Wind)

	best, comps, err := scoreEnds(report.Wind, a.Ends)
	if err != nil {
		s.logger.Warn("Wind component calculation failed",
			logger.String("airport", a.ICAO),
			logger.Error(err))
		return a.fallbackDecision(OutcomeDegraded, "error calculating wind components")
	}

	return Decision{
		ICAO:       a.ICAO,
		Runways:    []string{best.Ident},
		Outcome:    categorize(comps.CrosswindKt),
		Rationale:  []string{windRationale(report.Wind, comps)},
		Components: &comps,
		Suggested:  suggested,
	}
}

func (s *confirmSelector) manualSelection(report *metar.Report, conditions []string) Decision {
	a := s.airport

	if s.provider == nil {
		s.logger.Warn("Manual selection required but no decision provider configured",
			logger.String("airport", a.ICAO))
		return a.fallbackDecision(OutcomeDegraded, "manual selection required, no decision provider")
	}

	cfg, err := s.provider.ResolveConfiguration(a.ICAO, conditions)
	if err != nil {
		s.logger.Warn("Decision provider failed",
			logger.String("airport", a.ICAO),
			logger.Error(err))
		return a.fallbackDecision(OutcomeDegraded, "manual selection required, provider unavailable")
	}

	s.logger.Info("Operator configuration applied",
		logger.String("airport", a.ICAO),
		logger.String("configuration", cfg.Name),
		logger.Strings("conditions", conditions))

	return Decision{
		ICAO:      a.ICAO,
		Runways:   cfg.Runways,
		Mode:      cfg.Mode,
		Outcome:   OutcomeManualRequired,
		Rationale: conditions,
	}
}

// advisorySuggestion compares the plain fixed-wind headwind on the two
// canonical directions. It is advisory only and never short-circuits
// normal scoring. A negative cosine (tailwind) is kept here so the
// comparison picks the less unfavorable direction.
func (s *confirmSelector) advisorySuggestion(w metar.Wind) string {
	if w.Variable || len(s.airport.AdvisoryEnds) != 2 {
		return ""
	}

	a, b := s.airport.AdvisoryEnds[0], s.airport.AdvisoryEnds[1]
	hwA := float64(w.Speed) * math.Cos(float64(w.Direction-a.HeadingTrue)*math.Pi/180)
	hwB := float64(w.Speed) * math.Cos(float64(w.Direction-b.HeadingTrue)*math.Pi/180)
	if hwA >= hwB {
		return a.Ident
	}
	return b.Ident
}
