package metar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindTokens(t *testing.T) {
	tests := []struct {
		token string
		want  Wind
	}{
		{"07013KT", Wind{Direction: 70, Speed: 13}},
		{"07013G20KT", Wind{Direction: 70, Speed: 13, Gust: 20}},
		{"VRB02KT", Wind{Variable: true, Speed: 2}},
		{"36012G35KT", Wind{Direction: 0, Speed: 12, Gust: 35}},
		{"00000KT", Wind{Direction: 0, Speed: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseWind(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWindInvalid(t *testing.T) {
	for _, token := range []string{"07013", "7013KT", "VRBKT", "07013MPS", ""} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseWind(token)
			assert.Error(t, err)
		})
	}
}

func TestParseVariableRangeToken(t *testing.T) {
	r, ok := ParseVariableRange("340V060")
	require.True(t, ok)
	assert.Equal(t, VariableRange{Low: 340, High: 60}, r)

	_, ok = ParseVariableRange("340V60")
	assert.False(t, ok)
	_, ok = ParseVariableRange("BKN040")
	assert.False(t, ok)
}

func TestParseCloudToken(t *testing.T) {
	cloud, ok := ParseCloud("BKN040")
	require.True(t, ok)
	assert.Equal(t, Cloud{Type: Broken, HeightFt: 4000}, cloud)

	// Unknown-type suffix after the height is tolerated
	cloud, ok = ParseCloud("OVC002///")
	require.True(t, ok)
	assert.Equal(t, Cloud{Type: Overcast, HeightFt: 200}, cloud)

	_, ok = ParseCloud("CAVOK")
	assert.False(t, ok)
}

func TestParsePrecipitationToken(t *testing.T) {
	tests := []struct {
		token string
		want  Precipitation
	}{
		{"-SN", Precipitation{Kind: Snow, Intensity: Light}},
		{"+RA", Precipitation{Kind: Rain, Intensity: Heavy}},
		{"RA", Precipitation{Kind: Rain, Intensity: Moderate}},
		{"-SHSN", Precipitation{Kind: Snow, Descriptor: "SH", Intensity: Light}},
		{"TSRA", Precipitation{Kind: Rain, Descriptor: "TS", Intensity: Moderate}},
		{"UP", Precipitation{Kind: Unknown, Intensity: Moderate}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParsePrecipitation(tt.token)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, token := range []string{"FG", "BR", "SNRA", "RASH"} {
		t.Run("reject "+token, func(t *testing.T) {
			_, ok := ParsePrecipitation(token)
			assert.False(t, ok)
		})
	}
}

func TestParseTemperatureToken(t *testing.T) {
	temp, dewpoint, err := parseTemperature("09/M03")
	require.NoError(t, err)
	assert.Equal(t, 9, temp)
	assert.Equal(t, -3, dewpoint)

	temp, dewpoint, err = parseTemperature("M04/M07")
	require.NoError(t, err)
	assert.Equal(t, -4, temp)
	assert.Equal(t, -7, dewpoint)

	_, _, err = parseTemperature("9C/3")
	assert.Error(t, err)
}

func TestParsePressureToken(t *testing.T) {
	pressure, err := parsePressure("Q1026")
	require.NoError(t, err)
	assert.Equal(t, 1026, pressure)

	_, err = parsePressure("A2992")
	assert.Error(t, err)
}
