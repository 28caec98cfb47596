package runway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// stubProvider records the call and returns a canned configuration.
type stubProvider struct {
	cfg        Configuration
	err        error
	icao       string
	conditions []string
}

func (p *stubProvider) ResolveConfiguration(icao string, conditions []string) (Configuration, error) {
	p.icao = icao
	p.conditions = conditions
	return p.cfg, p.err
}

func confirmAirport() *Airport {
	return &Airport{
		ICAO:   "ENGM",
		Policy: PolicyConfirm,
		Ends: []End{
			{Ident: "01L", HeadingTrue: 16},
			{Ident: "19R", HeadingTrue: 196},
			{Ident: "01R", HeadingTrue: 16},
			{Ident: "19L", HeadingTrue: 196},
		},
		Preferred: "01L",
		AdvisoryEnds: []End{
			{Ident: "01", HeadingTrue: 7},
			{Ident: "19", HeadingTrue: 187},
		},
	}
}

func TestTriggerConditions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"variable wind", "ENGM 141550Z VRB05KT 9999 10/06 Q1009", "Variable winds"},
		{"fog", "ENGM 141550Z 01010KT 9999 10/06 Q1009 RMK FG", "Fog reported"},
		{"low visibility", "ENGM 141550Z 01010KT 2000 10/06 Q1009", "Low visibility (2000m)"},
		{"rvr", "ENGM 141550Z 01010KT 9999 10/06 Q1009 RMK R01L/0450", "RVR reported"},
		{"low temperature", "ENGM 141550Z 01010KT 9999 03/01 Q1009", "Low temperature (3°C)"},
		{"snow", "ENGM 141550Z 01010KT 9999 -SN 10/06 Q1009", "Snow reported"},
		{"low cloud", "ENGM 141550Z 01010KT 9999 OVC002 10/06 Q1009", "Low cloud layer (200ft or below)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conditions := triggerConditions(mustParse(t, tt.raw))
			assert.Contains(t, conditions, tt.want)
		})
	}
}

func TestTriggerConditionsCleanReport(t *testing.T) {
	conditions := triggerConditions(mustParse(t, "ENGM 141550Z 01012KT 9999 FEW030 10/05 Q1015"))
	assert.Empty(t, conditions)
}

func TestConfirmManualSelection(t *testing.T) {
	provider := &stubProvider{cfg: Configuration{Name: "19 MPO", Runways: []string{"19L", "19R"}, Mode: ModeMixed}}
	selector := NewSelector(confirmAirport(), provider, logger.NewNop())

	decision := selector.Select(mustParse(t, "ENGM 141550Z 01010KT 9999 02/M01 Q1009 RMK FG"))

	assert.Equal(t, OutcomeManualRequired, decision.Outcome)
	assert.Equal(t, []string{"19L", "19R"}, decision.Runways)
	assert.Equal(t, ModeMixed, decision.Mode)

	// Both fired conditions reach the provider and the rationale.
	assert.Equal(t, "ENGM", provider.icao)
	assert.Contains(t, provider.conditions, "Fog reported")
	assert.Contains(t, provider.conditions, "Low temperature (2°C)")
	assert.Equal(t, provider.conditions, decision.Rationale)
}

func TestConfirmNoProviderDegrades(t *testing.T) {
	selector := NewSelector(confirmAirport(), nil, logger.NewNop())
	decision := selector.Select(mustParse(t, "ENGM 141550Z 01010KT 9999 02/M01 Q1009"))

	assert.Equal(t, OutcomeDegraded, decision.Outcome)
	assert.Equal(t, []string{"01L"}, decision.Runways)
}

func TestConfirmProviderFailureDegrades(t *testing.T) {
	provider := &stubProvider{err: errors.New("stdin closed")}
	selector := NewSelector(confirmAirport(), provider, logger.NewNop())
	decision := selector.Select(mustParse(t, "ENGM 141550Z 01010KT 9999 02/M01 Q1009"))

	assert.Equal(t, OutcomeDegraded, decision.Outcome)
	assert.Equal(t, []string{"01L"}, decision.Runways)
}

func TestConfirmCleanReportScoresNormally(t *testing.T) {
	provider := &stubProvider{cfg: Configuration{Name: "01 MPO"}}
	selector := NewSelector(confirmAirport(), provider, logger.NewNop())

	decision := selector.Select(mustParse(t, "ENGM 141550Z 01012KT 9999 FEW030 10/05 Q1015"))

	// Provider is never consulted without a trigger.
	assert.Empty(t, provider.icao)
	assert.Equal(t, []string{"01L"}, decision.Runways)
	assert.Equal(t, OutcomeNominal, decision.Outcome)
	assert.Equal(t, "01", decision.Suggested)
}

func TestAdvisorySuggestionPicksLessUnfavorable(t *testing.T) {
	selector := NewSelector(confirmAirport(), nil, logger.NewNop())

	// Southerly wind favors the 19 direction.
	decision := selector.Select(mustParse(t, "ENGM 141550Z 18010KT 9999 FEW030 10/05 Q1015"))
	assert.Equal(t, "19", decision.Suggested)

	// Easterly wind sits 83° off the 01 direction but 97° off 19; the
	// signed comparison keeps the side with the residual headwind.
	decision = selector.Select(mustParse(t, "ENGM 141550Z 09010KT 9999 FEW030 10/05 Q1015"))
	assert.Equal(t, "01", decision.Suggested)
}

func TestConfigurationByName(t *testing.T) {
	cfg, err := ConfigurationByName("19 SRO")
	require.NoError(t, err)
	assert.Equal(t, []string{"19R"}, cfg.Runways)
	assert.Equal(t, ModeSingle, cfg.Mode)

	_, err = ConfigurationByName("bogus")
	assert.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	cfg, err := StaticProvider{ConfigurationName: "01 SPO"}.ResolveConfiguration("ENGM", nil)
	require.NoError(t, err)
	assert.Equal(t, ModeSegregated, cfg.Mode)
	assert.Equal(t, []string{"01L", "01R"}, cfg.Runways)
}
