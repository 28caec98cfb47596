package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/meltinglava/enor-autorwy/internal/runway"
)

// promptProvider resolves manual selections interactively on the
// terminal. All console I/O stays here, outside the selection core.
type promptProvider struct{}

// ResolveConfiguration implements runway.DecisionProvider.
func (p *promptProvider) ResolveConfiguration(icao string, conditions []string) (runway.Configuration, error) {
	configurations := runway.Configurations()

	fmt.Printf("\n%s conditions requiring manual selection:\n", icao)
	for _, condition := range conditions {
		fmt.Printf("- %s\n", condition)
	}

	fmt.Printf("\n%s runway configuration:\n", icao)
	for i, cfg := range configurations {
		fmt.Printf("%d. %s (%s, runways %s)\n", i+1, cfg.Name, modeDescription(cfg.Mode), strings.Join(cfg.Runways, ", "))
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("Select runway configuration (1-%d): ", len(configurations))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return runway.Configuration{}, fmt.Errorf("failed to read selection: %w", err)
			}
			return runway.Configuration{}, fmt.Errorf("input closed before a selection was made")
		}

		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && choice >= 1 && choice <= len(configurations) {
			return configurations[choice-1], nil
		}
		fmt.Printf("Invalid choice. Please enter a number between 1 and %d.\n", len(configurations))
	}
}

func modeDescription(mode runway.Mode) string {
	switch mode {
	case runway.ModeMixed:
		return "Mixed Parallel Operations"
	case runway.ModeSegregated:
		return "Segregated Parallel Operations"
	case runway.ModeSingle:
		return "Single Runway Operations"
	default:
		return string(mode)
	}
}
