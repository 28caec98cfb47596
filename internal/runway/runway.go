// Package runway selects the runway(s) in use at an airport from a parsed
// METAR report. Selection is pure and deterministic: scoring favors
// headwind over crosswind, and every degraded input state (no data, calm
// winds, VRB winds, calculation failure) converges on the airport's
// configured preferred runway.
package runway

import (
	"github.com/meltinglava/enor-autorwy/internal/metar"
	"github.com/meltinglava/enor-autorwy/internal/wind"
)

// End is a single selectable runway end
type End struct {
	Ident       string // e.g. "01L"
	HeadingTrue int    // degrees true, 0..359
}

// Policy selects the selection behavior for an airport
type Policy string

const (
	// PolicyGeneric scores every configured end and picks the best.
	PolicyGeneric Policy = "generic"
	// PolicyDualPair scores a primary runway pair and falls back to a
	// secondary pair above a crosswind threshold.
	PolicyDualPair Policy = "dual-pair"
	// PolicyConfirm requires operator confirmation when any of a fixed
	// battery of weather conditions is present.
	PolicyConfirm Policy = "confirm"
)

// Mode is the operating mode for a two-runway configuration
type Mode string

const (
	ModeMixed      Mode = "MPO" // mixed parallel operations
	ModeSegregated Mode = "SPO" // segregated parallel operations
	ModeSingle     Mode = "SRO" // single runway operations
)

// Airport is the static selection configuration for one aerodrome
type Airport struct {
	ICAO      string
	Ends      []End  // ordered as configured
	Preferred string // preferred runway ident, empty when none configured
	Policy    Policy

	// Dual-pair policy only
	PrimaryPair   []End
	SecondaryPair []End

	// Confirm policy only: the two canonical directions compared for the
	// advisory suggestion when no trigger fires.
	AdvisoryEnds []End
}

// Outcome categorizes a selection decision
type Outcome string

const (
	OutcomeNominal           Outcome = "nominal"
	OutcomeModerateCrosswind Outcome = "moderate-crosswind"
	OutcomeHighCrosswind     Outcome = "high-crosswind"
	OutcomeCalm              Outcome = "calm"
	OutcomeVariableWind      Outcome = "variable-wind"
	OutcomeNoData            Outcome = "no-data"
	OutcomeDegraded          Outcome = "degraded"
	OutcomeManualRequired    Outcome = "manual-selection-required"
)

// Advisory reports whether the outcome must be surfaced to the operator.
func (o Outcome) Advisory() bool {
	return o != OutcomeNominal
}

// Decision is the result of selecting runways for one airport
type Decision struct {
	ICAO    string   `json:"icao"`
	Runways []string `json:"runways"` // one or two runway ends
	Mode    Mode     `json:"mode,omitempty"` // set for confirm-policy configurations, otherwise empty
	Outcome Outcome  `json:"outcome"`
	// Rationale carries the human-readable reasons behind the decision;
	// for manual selections these are the fired trigger conditions.
	Rationale  []string         `json:"rationale,omitempty"`
	Components *wind.Components `json:"components,omitempty"` // winning end's components, when computed

	// Advisory suggestion from the confirm policy's canonical-direction
	// comparison; empty for other policies.
	Suggested string `json:"suggested,omitempty"`
}

// fallbackEnd implements the single degraded-path rule: the configured
// preferred runway, else the first configured end.
func (a *Airport) fallbackEnd() string {
	if a.Preferred != "" {
		return a.Preferred
	}
	if len(a.Ends) > 0 {
		return a.Ends[0].Ident
	}
	return ""
}

// fallbackDecision builds the terminal decision shared by every degraded
// input state.
func (a *Airport) fallbackDecision(outcome Outcome, rationale string) Decision {
	return Decision{
		ICAO:      a.ICAO,
		Runways:   []string{a.fallbackEnd()},
		Outcome:   outcome,
		Rationale: []string{rationale},
	}
}

// categorize maps the winning end's crosswind to an outcome category.
func categorize(crosswindKt int) Outcome {
	switch {
	case crosswindKt > 20:
		return OutcomeHighCrosswind
	case crosswindKt > 15:
		return OutcomeModerateCrosswind
	default:
		return OutcomeNominal
	}
}

// crosswindThresholdKt is the dual-pair policy's limit on the primary
// pair: above this the secondary pair is evaluated instead.
const crosswindThresholdKt = 15

func calm(report *metar.Report) bool {
	return report.Wind.Speed == 0
}

func variableNoArc(report *metar.Report) bool {
	return report.Wind.Variable && report.Wind.Range == nil
}
