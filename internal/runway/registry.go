package runway

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"

	"github.com/meltinglava/enor-autorwy/internal/config"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Registry holds the fully constructed airport table. Every airport is
// built once at load time with its policy assigned from configuration;
// lookups never manufacture new entries.
type Registry struct {
	airports map[string]*Airport
	order    []string
}

// LoadRegistry parses the runway database (EuroScope runway format:
// "ID1 ID2 HDG1 HDG2 LAT1 LON1 LAT2 LON2 ICAO", space-delimited with a
// header line) and assembles the airport table. Ignored airports are
// dropped; preferred runways and policies come from configuration.
func LoadRegistry(cfg config.AirportsConfig, log *logger.Logger) (*Registry, error) {
	file, err := os.Open(cfg.RunwaysDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open runway database: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ' '
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read runway database header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read runway database: %w", err)
	}

	ignored := make(map[string]bool, len(cfg.Ignored))
	for _, icao := range cfg.Ignored {
		ignored[icao] = true
	}

	reg := &Registry{airports: make(map[string]*Airport)}
	now := time.Now()

	for _, record := range records {
		if len(record) < 9 {
			continue
		}
		icao := record[8]
		if ignored[icao] {
			continue
		}

		hdg1, err1 := strconv.Atoi(record[2])
		hdg2, err2 := strconv.Atoi(record[3])
		if err1 != nil || err2 != nil {
			log.Warn("Skipping runway row with invalid headings",
				logger.String("airport", icao),
				logger.Strings("row", record))
			continue
		}

		if cfg.MagneticVariation {
			// File headings are magnetic; correct to true using the
			// WMM declination at the runway threshold.
			lat, lon, err := parseCoordinates(record[4], record[5])
			if err != nil {
				log.Warn("Skipping magnetic correction, unparseable coordinates",
					logger.String("airport", icao),
					logger.Error(err))
			} else {
				variation := magneticVariation(lat, lon, now)
				hdg1 = normalizeHeading(hdg1 + int(variation+0.5))
				hdg2 = normalizeHeading(hdg2 + int(variation+0.5))
			}
		}

		airport, ok := reg.airports[icao]
		if !ok {
			airport = &Airport{ICAO: icao, Policy: PolicyGeneric}
			reg.airports[icao] = airport
			reg.order = append(reg.order, icao)
		}
		airport.Ends = append(airport.Ends,
			End{Ident: record[0], HeadingTrue: hdg1},
			End{Ident: record[1], HeadingTrue: hdg2})
	}

	for icao, preferred := range cfg.Preferred {
		if airport, ok := reg.airports[icao]; ok {
			airport.Preferred = preferred
		}
	}

	for icao, policyCfg := range cfg.Policies {
		airport, ok := reg.airports[icao]
		if !ok {
			log.Warn("Policy configured for unknown airport",
				logger.String("airport", icao))
			continue
		}
		if err := applyPolicy(airport, policyCfg); err != nil {
			return nil, fmt.Errorf("invalid policy for %s: %w", icao, err)
		}
	}

	log.Info("Runway database loaded",
		logger.Int("airports", len(reg.order)),
		logger.String("path", cfg.RunwaysDBPath))

	return reg, nil
}

// applyPolicy assigns an airport's policy tag and resolves pair/advisory
// references against the configured ends.
func applyPolicy(airport *Airport, cfg config.PolicyConfig) error {
	switch Policy(cfg.Type) {
	case PolicyGeneric, "":
		airport.Policy = PolicyGeneric

	case PolicyDualPair:
		primary, err := resolveEnds(airport, cfg.PrimaryPair)
		if err != nil {
			return err
		}
		secondary, err := resolveEnds(airport, cfg.SecondaryPair)
		if err != nil {
			return err
		}
		airport.Policy = PolicyDualPair
		airport.PrimaryPair = primary
		airport.SecondaryPair = secondary

	case PolicyConfirm:
		airport.Policy = PolicyConfirm
		for _, adv := range cfg.Advisory {
			airport.AdvisoryEnds = append(airport.AdvisoryEnds,
				End{Ident: adv.Ident, HeadingTrue: adv.Heading})
		}
		if n := len(airport.AdvisoryEnds); n != 0 && n != 2 {
			return fmt.Errorf("confirm policy needs exactly two advisory directions, got %d", n)
		}

	default:
		return fmt.Errorf("unknown policy type %q", cfg.Type)
	}
	return nil
}

func resolveEnds(airport *Airport, idents []string) ([]End, error) {
	ends := make([]End, 0, len(idents))
	for _, ident := range idents {
		found := false
		for _, end := range airport.Ends {
			if end.Ident == ident {
				ends = append(ends, end)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("runway end %q not in database", ident)
		}
	}
	if len(ends) == 0 {
		return nil, fmt.Errorf("empty runway pair")
	}
	return ends, nil
}

// Get returns the airport for the given ICAO code.
func (r *Registry) Get(icao string) (*Airport, bool) {
	airport, ok := r.airports[icao]
	return airport, ok
}

// All returns the airports in database order.
func (r *Registry) All() []*Airport {
	airports := make([]*Airport, 0, len(r.order))
	for _, icao := range r.order {
		airports = append(airports, r.airports[icao])
	}
	return airports
}

// parseCoordinates parses a EuroScope sexagesimal coordinate pair such as
// "N060.12.10.000 E011.05.02.000" into decimal degrees.
func parseCoordinates(latStr, lonStr string) (lat, lon float64, err error) {
	lat, err = parseCoordinate(latStr, 'N', 'S')
	if err != nil {
		return 0, 0, err
	}
	lon, err = parseCoordinate(lonStr, 'E', 'W')
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func parseCoordinate(s string, positive, negative byte) (float64, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("coordinate %q too short", s)
	}
	sign := 1.0
	switch s[0] {
	case positive:
	case negative:
		sign = -1
	default:
		return 0, fmt.Errorf("coordinate %q has unexpected hemisphere %q", s, s[0])
	}

	parts := strings.SplitN(s[1:], ".", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("coordinate %q not in DDD.MM.SS form", s)
	}
	deg, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", s, err)
	}
	min, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", s, err)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", s, err)
	}

	return sign * (deg + min/60 + sec/3600), nil
}

// magneticVariation returns the WMM declination in degrees (+East) at the
// given position, or 0 if the model evaluation fails.
func magneticVariation(lat, lon float64, date time.Time) float64 {
	loc := egm96.NewLocationGeodetic(lat, lon, 0)
	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		return 0
	}
	return mag.D()
}

func normalizeHeading(h int) int {
	h %= 360
	if h < 0 {
		h += 360
	}
	return h
}
