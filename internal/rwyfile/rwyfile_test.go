package rwyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meltinglava/enor-autorwy/internal/runway"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		decision runway.Decision
		want     []string
	}{
		{
			name:     "single runway",
			decision: runway.Decision{ICAO: "ENVA", Runways: []string{"09"}},
			want: []string{
				"ACTIVE_RUNWAY:ENVA:09:1",
				"ACTIVE_RUNWAY:ENVA:09:0",
			},
		},
		{
			name: "mixed parallel operations",
			decision: runway.Decision{
				ICAO:    "ENGM",
				Runways: []string{"19L", "19R"},
				Mode:    runway.ModeMixed,
			},
			want: []string{
				"ACTIVE_RUNWAY:ENGM:19L:1",
				"ACTIVE_RUNWAY:ENGM:19L:0",
				"ACTIVE_RUNWAY:ENGM:19R:1",
				"ACTIVE_RUNWAY:ENGM:19R:0",
			},
		},
		{
			name: "segregated departure first",
			decision: runway.Decision{
				ICAO:    "ENGM",
				Runways: []string{"01L", "01R"},
				Mode:    runway.ModeSegregated,
			},
			want: []string{
				"ACTIVE_RUNWAY:ENGM:01L:1",
				"ACTIVE_RUNWAY:ENGM:01R:0",
			},
		},
		{
			name: "single runway operations",
			decision: runway.Decision{
				ICAO:    "ENGM",
				Runways: []string{"19R"},
				Mode:    runway.ModeSingle,
			},
			want: []string{
				"ACTIVE_RUNWAY:ENGM:19R:1",
				"ACTIVE_RUNWAY:ENGM:19R:0",
			},
		},
		{
			name:     "no runways",
			decision: runway.Decision{ICAO: "ENVA"},
			want:     nil,
		},
		{
			name:     "empty ident filtered",
			decision: runway.Decision{ICAO: "ENVA", Runways: []string{""}},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lines(tt.decision))
		})
	}
}

func TestUpdateFileReplacesNotAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rwy")
	initial := "SETTINGS:something\nACTIVE_RUNWAY:ENVA:27:1\nACTIVE_RUNWAY:ENVA:27:0\nACTIVE_RUNWAY:ENZV:18:1\n"
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o644))

	lines := Lines(runway.Decision{ICAO: "ENVA", Runways: []string{"09"}})
	require.NoError(t, UpdateFile(path, "ENVA", lines))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	got := string(content)
	assert.NotContains(t, got, "ACTIVE_RUNWAY:ENVA:27")
	assert.Contains(t, got, "ACTIVE_RUNWAY:ENVA:09:1\nACTIVE_RUNWAY:ENVA:09:0\n")
	// Unrelated lines survive.
	assert.Contains(t, got, "SETTINGS:something\n")
	assert.Contains(t, got, "ACTIVE_RUNWAY:ENZV:18:1\n")
}

func TestUpdateFileRepeatedRunsStayStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rwy")
	require.NoError(t, os.WriteFile(path, []byte("HEADER:x\n"), 0o644))

	lines := Lines(runway.Decision{ICAO: "ENVA", Runways: []string{"09"}})
	for i := 0; i < 3; i++ {
		require.NoError(t, UpdateFile(path, "ENVA", lines))
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "HEADER:x\nACTIVE_RUNWAY:ENVA:09:1\nACTIVE_RUNWAY:ENVA:09:0\n", string(content))
}

func TestStoreApply(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rwy"), []byte("HEADER:a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rwy"), []byte("HEADER:b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("untouched\n"), 0o644))

	store := NewStore(dir, logger.NewNop())
	require.NoError(t, store.Apply(runway.Decision{ICAO: "ENVA", Runways: []string{"09"}}))

	for _, name := range []string{"a.rwy", "b.rwy"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(content), "ACTIVE_RUNWAY:ENVA:09:1")
	}

	content, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "untouched\n", string(content))
}

func TestStoreApplyEmptyDecisionIsNoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rwy"), []byte("HEADER:a\n"), 0o644))

	store := NewStore(dir, logger.NewNop())
	require.NoError(t, store.Apply(runway.Decision{ICAO: "ENVA"}))

	content, err := os.ReadFile(filepath.Join(dir, "a.rwy"))
	require.NoError(t, err)
	assert.Equal(t, "HEADER:a\n", string(content))
}
