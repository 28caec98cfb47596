package metar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

var testNow = time.Date(2026, time.August, 14, 16, 0, 0, 0, time.UTC)

func TestParseFullReport(t *testing.T) {
	report, err := ParseAt("ENGM 141550Z 07013G20KT 340V060 9999 BKN040 09/M03 Q1013", testNow)
	require.NoError(t, err)

	assert.Equal(t, "ENGM", report.Station)
	assert.Equal(t, time.Date(2026, time.August, 14, 15, 50, 0, 0, time.UTC), report.ObservedAt)

	assert.False(t, report.Wind.Variable)
	assert.Equal(t, 70, report.Wind.Direction)
	assert.Equal(t, 13, report.Wind.Speed)
	assert.Equal(t, 20, report.Wind.Gust)
	require.NotNil(t, report.Wind.Range)
	assert.Equal(t, VariableRange{Low: 340, High: 60}, *report.Wind.Range)

	assert.Equal(t, 9999, report.VisibilityM)
	require.Len(t, report.Clouds, 1)
	assert.Equal(t, Cloud{Type: Broken, HeightFt: 4000}, report.Clouds[0])
	assert.Equal(t, 9, report.TemperatureC)
	assert.Equal(t, -3, report.DewpointC)
	assert.Equal(t, 1013, report.PressureHPa)
	assert.Nil(t, report.Precipitation)
}

func TestParseCAVOK(t *testing.T) {
	report, err := ParseAt("ENVA 141550Z 09005KT CAVOK 15/08 Q1020", testNow)
	require.NoError(t, err)
	assert.Equal(t, 9999, report.VisibilityM)
	assert.Empty(t, report.Clouds)
}

func TestParseAutoMarker(t *testing.T) {
	report, err := ParseAt("ENBR 141550Z AUTO 17008KT 9999 FEW012 12/09 Q1008", testNow)
	require.NoError(t, err)
	assert.True(t, report.Auto)
	assert.Equal(t, 170, report.Wind.Direction)
}

func TestParseVRBWind(t *testing.T) {
	report, err := ParseAt("ENZV 141550Z VRB02KT 9999 SCT030 10/05 Q1015", testNow)
	require.NoError(t, err)
	assert.True(t, report.Wind.Variable)
	assert.Equal(t, 2, report.Wind.Speed)
	assert.Nil(t, report.Wind.Range)
}

func TestParsePrecipitationGroup(t *testing.T) {
	report, err := ParseAt("ENTC 141550Z 36010KT 4000 -SHSN BKN008 M01/M04 Q0998", testNow)
	require.NoError(t, err)
	require.NotNil(t, report.Precipitation)
	assert.Equal(t, Snow, report.Precipitation.Kind)
	assert.Equal(t, "SH", report.Precipitation.Descriptor)
	assert.Equal(t, Light, report.Precipitation.Intensity)
	assert.Equal(t, 4000, report.VisibilityM)
}

func TestParseMultipleCloudLayers(t *testing.T) {
	report, err := ParseAt("ENBO 141550Z 25015KT 9999 FEW008 SCT020 OVC045 08/03 Q1011", testNow)
	require.NoError(t, err)
	require.Len(t, report.Clouds, 3)
	assert.Equal(t, Few, report.Clouds[0].Type)
	assert.Equal(t, 800, report.Clouds[0].HeightFt)
	assert.Equal(t, 4500, report.Clouds[2].HeightFt)
}

func TestParseNSCClearsClouds(t *testing.T) {
	report, err := ParseAt("ENAL 141550Z 06007KT 9999 NSC 11/06 Q1017", testNow)
	require.NoError(t, err)
	assert.Empty(t, report.Clouds)
	assert.Equal(t, 11, report.TemperatureC)
}

func TestParseTrendSectionIgnored(t *testing.T) {
	report, err := ParseAt("ENGM 141550Z 19012KT 9999 BKN035 07/01 Q1009 NOSIG", testNow)
	require.NoError(t, err)
	assert.Equal(t, 1009, report.PressureHPa)

	report, err = ParseAt("ENGM 141550Z 19012KT 9999 BKN035 07/01 Q1009 RMK WIND 1400FT 20015KT", testNow)
	require.NoError(t, err)
	assert.Equal(t, 1009, report.PressureHPa)
}

func TestParseVisibilityWithTrailingText(t *testing.T) {
	report, err := ParseAt("ENHD 141550Z 13009KT 5000NE BKN014 09/07 Q1012", testNow)
	require.NoError(t, err)
	assert.Equal(t, 5000, report.VisibilityM)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field Field
	}{
		{"malformed time", "ENGM 1415Z 07013KT 9999 09/03 Q1013", FieldTime},
		{"malformed wind", "ENGM 141550Z 070KT 9999 09/03 Q1013", FieldWind},
		{"missing temperature", "ENGM 141550Z 07013KT 9999", FieldTemperature},
		{"malformed temperature", "ENGM 141550Z 07013KT 9999 9//3 Q1013", FieldTemperature},
		{"missing pressure", "ENGM 141550Z 07013KT 9999 09/03", FieldPressure},
		{"malformed pressure", "ENGM 141550Z 07013KT 9999 09/03 A2992", FieldPressure},
		{"empty report", "", FieldStation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAt(tt.raw, testNow)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.field, parseErr.Field)
		})
	}
}

func TestParseBatchSkipsMalformedLines(t *testing.T) {
	text := "ENGM 141550Z 07013KT 9999 BKN040 09/M03 Q1013\n" +
		"garbage line that is not a metar\n" +
		"\n" +
		"ENZV 141550Z 18010KT 9999 SCT025 11/07 Q1015\n"

	reports := ParseBatch(text, testNow, logger.NewNop())
	require.Len(t, reports, 2)
	assert.Contains(t, reports, "ENGM")
	assert.Contains(t, reports, "ENZV")
	assert.Equal(t, 180, reports["ENZV"].Wind.Direction)
}

func TestVariableRangeContains(t *testing.T) {
	straight := VariableRange{Low: 100, High: 200}
	assert.True(t, straight.Contains(150))
	assert.True(t, straight.Contains(100))
	assert.True(t, straight.Contains(200))
	assert.False(t, straight.Contains(99))
	assert.False(t, straight.Contains(250))

	wrapped := VariableRange{Low: 340, High: 60}
	assert.True(t, wrapped.Contains(350))
	assert.True(t, wrapped.Contains(0))
	assert.True(t, wrapped.Contains(60))
	assert.False(t, wrapped.Contains(87))
	assert.False(t, wrapped.Contains(267))
}

func TestEffectiveSpeed(t *testing.T) {
	assert.Equal(t, 13, Wind{Speed: 13}.EffectiveSpeed())
	assert.Equal(t, 20, Wind{Speed: 13, Gust: 20}.EffectiveSpeed())
}
