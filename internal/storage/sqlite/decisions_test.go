package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meltinglava/enor-autorwy/internal/runway"
	"github.com/meltinglava/enor-autorwy/internal/wind"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

func testStorage(t *testing.T) *DecisionStorage {
	t.Helper()
	storage, err := NewDecisionStorage(filepath.Join(t.TempDir(), "decisions.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestSaveAndGetDecisions(t *testing.T) {
	storage := testStorage(t)
	at := time.Date(2026, time.August, 14, 16, 0, 0, 0, time.UTC)

	first := runway.Decision{
		ICAO:       "ENVA",
		Runways:    []string{"09"},
		Outcome:    runway.OutcomeNominal,
		Rationale:  []string{"wind 09016KT, headwind 16KT, crosswind 0KT"},
		Components: &wind.Components{HeadwindKt: 16, CrosswindKt: 0},
	}
	require.NoError(t, storage.SaveDecision(first, at))

	second := runway.Decision{
		ICAO:    "ENVA",
		Runways: []string{"27"},
		Outcome: runway.OutcomeModerateCrosswind,
	}
	require.NoError(t, storage.SaveDecision(second, at.Add(time.Hour)))

	require.NoError(t, storage.SaveDecision(runway.Decision{
		ICAO:    "ENGM",
		Runways: []string{"19L", "19R"},
		Mode:    runway.ModeMixed,
		Outcome: runway.OutcomeManualRequired,
	}, at))

	records, err := storage.GetDecisions("ENVA", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, []string{"27"}, records[0].Runways)
	assert.Equal(t, string(runway.OutcomeModerateCrosswind), records[0].Outcome)
	assert.Nil(t, records[0].HeadwindKt)

	assert.Equal(t, []string{"09"}, records[1].Runways)
	require.NotNil(t, records[1].HeadwindKt)
	assert.Equal(t, 16, *records[1].HeadwindKt)
	require.NotNil(t, records[1].CrosswindKt)
	assert.Equal(t, 0, *records[1].CrosswindKt)
	require.Len(t, records[1].Rationale, 1)

	engm, err := storage.GetDecisions("ENGM", 10)
	require.NoError(t, err)
	require.Len(t, engm, 1)
	assert.Equal(t, []string{"19L", "19R"}, engm[0].Runways)
	assert.Equal(t, string(runway.ModeMixed), engm[0].Mode)
}

func TestGetDecisionsLimit(t *testing.T) {
	storage := testStorage(t)
	at := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, storage.SaveDecision(runway.Decision{
			ICAO:    "ENVA",
			Runways: []string{"09"},
			Outcome: runway.OutcomeNominal,
		}, at.Add(time.Duration(i)*time.Minute)))
	}

	records, err := storage.GetDecisions("ENVA", 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestGetDecisionsEmpty(t *testing.T) {
	storage := testStorage(t)
	records, err := storage.GetDecisions("ENML", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
