// Package rwyfile maintains EuroScope-style .rwy text stores. Active
// runways are recorded as "ACTIVE_RUNWAY:<ICAO>:<runway>:<0|1>" lines,
// where 1 marks the end departure-eligible and 0 arrival-eligible.
// Existing lines for an airport are replaced, never appended to.
package rwyfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltinglava/enor-autorwy/internal/runway"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

const (
	departureFlag = "1"
	arrivalFlag   = "0"
)

// Store applies runway decisions to every .rwy file in a directory.
type Store struct {
	dir    string
	logger *logger.Logger
}

// NewStore creates a store over the given directory.
func NewStore(dir string, log *logger.Logger) *Store {
	return &Store{dir: dir, logger: log.Named("rwyfile")}
}

// Files returns the .rwy files currently present in the store directory.
func (s *Store) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.rwy"))
	if err != nil {
		return nil, fmt.Errorf("failed to list rwy files: %w", err)
	}
	return files, nil
}

// Apply writes the decision's active-runway lines into every .rwy file.
func (s *Store) Apply(decision runway.Decision) error {
	lines := Lines(decision)
	if len(lines) == 0 {
		return nil
	}

	files, err := s.Files()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		s.logger.Warn("No .rwy files found", logger.String("dir", s.dir))
		return nil
	}

	for _, file := range files {
		if err := UpdateFile(file, decision.ICAO, lines); err != nil {
			return fmt.Errorf("failed to update %s: %w", file, err)
		}
		s.logger.Debug("Updated rwy file",
			logger.String("file", file),
			logger.String("airport", decision.ICAO),
			logger.Strings("runways", decision.Runways))
	}
	return nil
}

// Lines renders a decision into its ACTIVE_RUNWAY lines. Mixed operations
// mark both runways for departures and arrivals; segregated operations
// mark the first runway for departures and the second for arrivals; a
// single-runway decision gets both flags.
func Lines(decision runway.Decision) []string {
	runways := make([]string, 0, len(decision.Runways))
	for _, r := range decision.Runways {
		if r != "" {
			runways = append(runways, r)
		}
	}
	if len(runways) == 0 {
		return nil
	}

	icao := decision.ICAO
	var lines []string

	switch {
	case decision.Mode == runway.ModeSegregated && len(runways) == 2:
		lines = append(lines,
			activeRunwayLine(icao, runways[0], departureFlag),
			activeRunwayLine(icao, runways[1], arrivalFlag))
	case decision.Mode == runway.ModeMixed:
		for _, r := range runways {
			lines = append(lines,
				activeRunwayLine(icao, r, departureFlag),
				activeRunwayLine(icao, r, arrivalFlag))
		}
	default:
		// single-runway operations and plain decisions
		lines = append(lines,
			activeRunwayLine(icao, runways[0], departureFlag),
			activeRunwayLine(icao, runways[0], arrivalFlag))
	}

	return lines
}

func activeRunwayLine(icao, rwy, flag string) string {
	return fmt.Sprintf("ACTIVE_RUNWAY:%s:%s:%s", icao, rwy, flag)
}

// UpdateFile replaces the airport's ACTIVE_RUNWAY lines in a single file
// with the given lines, preserving everything else.
func UpdateFile(path, icao string, lines []string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	prefix := fmt.Sprintf("ACTIVE_RUNWAY:%s:", icao)
	var kept []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, prefix) {
			continue
		}
		kept = append(kept, line)
	}

	// Drop trailing blank lines before appending so the file stays tidy
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}
	kept = append(kept, lines...)

	out := strings.Join(kept, "\n") + "\n"
	return os.WriteFile(path, []byte(out), 0644)
}
