// Package metar parses the subset of the METAR observation grammar needed
// for runway selection: wind (with gusts and variability arcs), visibility,
// present weather, cloud layers, temperature/dewpoint and altimeter.
// Trend groups and remarks are ignored, not rejected.
package metar

import (
	"strconv"
	"strings"
	"time"

	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// CloudType is the reported sky coverage of a single cloud layer
type CloudType string

const (
	Few         CloudType = "FEW"
	Scattered   CloudType = "SCT"
	Broken      CloudType = "BKN"
	Overcast    CloudType = "OVC"
	VerticalVis CloudType = "VV"
)

// Cloud is a single reported cloud layer
type Cloud struct {
	Type     CloudType `json:"type"`
	HeightFt int       `json:"height_ft"` // layer base above aerodrome level, multiple of 100
}

// PrecipitationKind is the base present-weather phenomenon
type PrecipitationKind string

const (
	Rain        PrecipitationKind = "RA"
	Snow        PrecipitationKind = "SN"
	Drizzle     PrecipitationKind = "DZ"
	Hail        PrecipitationKind = "GR"
	SmallHail   PrecipitationKind = "GS"
	IcePellets  PrecipitationKind = "PL"
	IceCrystals PrecipitationKind = "IC"
	Unknown     PrecipitationKind = "UP"
)

// Intensity is the reported precipitation intensity
type Intensity string

const (
	Light    Intensity = "light"
	Moderate Intensity = "moderate"
	Heavy    Intensity = "heavy"
)

// Precipitation is a single present-weather group
type Precipitation struct {
	Kind       PrecipitationKind `json:"kind"`
	Descriptor string            `json:"descriptor,omitempty"` // "TS" or "SH" when reported, otherwise empty
	Intensity  Intensity         `json:"intensity"`
}

// VariableRange is a reported wind variability arc. The arc runs clockwise
// from Low to High and may wrap through north (e.g. 340V060).
type VariableRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Contains reports whether the direction deg lies within the arc.
func (r VariableRange) Contains(deg int) bool {
	deg = ((deg % 360) + 360) % 360
	if r.Low <= r.High {
		return r.Low <= deg && deg <= r.High
	}
	return deg >= r.Low || deg <= r.High
}

// Wind is the reported surface wind. When Variable is true the direction
// is indeterminate ("VRB") and Direction is meaningless; Range never
// co-occurs with Variable.
type Wind struct {
	Direction int            `json:"direction"` // degrees true, 0..359
	Variable  bool           `json:"variable"`  // VRB keyword
	Speed     int            `json:"speed_kt"`
	Gust      int            `json:"gust_kt,omitempty"` // 0 when no gust reported
	Range     *VariableRange `json:"range,omitempty"`
}

// EffectiveSpeed returns the speed used for worst-case component
// calculations: the gust when reported, otherwise the sustained speed.
func (w Wind) EffectiveSpeed() int {
	if w.Gust > 0 {
		return w.Gust
	}
	return w.Speed
}

// Report is a single parsed METAR observation
type Report struct {
	Station       string         `json:"station"`
	ObservedAt    time.Time      `json:"observed_at"`
	Auto          bool           `json:"auto,omitempty"`
	Wind          Wind           `json:"wind"`
	VisibilityM   int            `json:"visibility_m"` // meters, 9999 for CAVOK/unlimited
	TemperatureC  int            `json:"temperature_c"`
	DewpointC     int            `json:"dewpoint_c"`
	PressureHPa   int            `json:"pressure_hpa"`
	Precipitation *Precipitation `json:"precipitation,omitempty"`
	Clouds        []Cloud        `json:"clouds,omitempty"` // empty means no significant cloud
	Raw           string         `json:"raw"`
}

// cloud-scan stop words: NSC clears the cloud list and is consumed, the
// rest open a trend/remarks section and are left unconsumed.
var cloudStopWords = map[string]bool{
	"RMK":   true,
	"TEMPO": true,
	"NOSIG": true,
	"BECMG": true,
	"NSC":   true,
}

// Parse parses a single raw METAR line. The observation year and month are
// taken from the current UTC date; there is no month-rollover correction.
func Parse(raw string) (*Report, error) {
	return ParseAt(raw, time.Now().UTC())
}

// ParseAt parses a single raw METAR line resolving the DDHHMMZ group
// against the given reference time.
func ParseAt(raw string, now time.Time) (*Report, error) {
	tokens := strings.Fields(raw)
	idx := 0

	next := func() (string, bool) {
		if idx < len(tokens) {
			return tokens[idx], true
		}
		return "", false
	}

	// 1. Station identifier
	station, ok := next()
	if !ok {
		return nil, newParseError(FieldStation, "")
	}
	idx++

	// 2. Observation time (DDHHMMZ)
	timeToken, ok := next()
	if !ok {
		return nil, newParseError(FieldTime, "")
	}
	m := timeRe.FindStringSubmatch(timeToken)
	if m == nil {
		return nil, newParseError(FieldTime, timeToken)
	}
	idx++
	day, _ := strconv.Atoi(m[1])
	hour, _ := strconv.Atoi(m[2])
	minute, _ := strconv.Atoi(m[3])
	now = now.UTC()
	observedAt := time.Date(now.Year(), now.Month(), day, hour, minute, 0, 0, time.UTC)

	report := &Report{
		Station:    station,
		ObservedAt: observedAt,
		Raw:        raw,
	}

	// 3. Optional AUTO marker
	if tok, ok := next(); ok && tok == "AUTO" {
		report.Auto = true
		idx++
	}

	// 4. Wind group
	windToken, ok := next()
	if !ok {
		return nil, newParseError(FieldWind, "")
	}
	wind, err := ParseWind(windToken)
	if err != nil {
		return nil, err
	}
	idx++

	// 5. Optional variability arc. Only attached to a fixed direction;
	// after a VRB wind the group carries no extra information and is
	// consumed without being attached.
	if tok, ok := next(); ok {
		if r, matched := ParseVariableRange(tok); matched {
			if !wind.Variable {
				wind.Range = &r
			}
			idx++
		}
	}
	report.Wind = wind

	// 6. Visibility: CAVOK or a leading-digits token. Trailing
	// non-numeric text after the digits (e.g. directional suffixes)
	// is tolerated and ignored.
	if tok, ok := next(); ok {
		if tok == "CAVOK" {
			report.VisibilityM = 9999
			idx++
		} else if m := visRe.FindStringSubmatch(tok); m != nil {
			report.VisibilityM, _ = strconv.Atoi(m[1])
			idx++
		} else {
			idx++
		}
	}

	// 7. Optional single present-weather group
	if tok, ok := next(); ok {
		if p, matched := ParsePrecipitation(tok); matched {
			report.Precipitation = &p
			idx++
		}
	}

	// 8. Cloud layers, scanned until the temperature group or a
	// trend/remarks boundary
	for {
		tok, ok := next()
		if !ok {
			break
		}
		if tempRe.MatchString(tok) {
			break
		}
		if cloudStopWords[tok] {
			if tok == "NSC" {
				report.Clouds = nil
				idx++
			}
			break
		}
		cloud, matched := ParseCloud(tok)
		if !matched {
			break
		}
		report.Clouds = append(report.Clouds, cloud)
		idx++
	}

	// 9. Temperature/dewpoint group
	tempToken, ok := next()
	if !ok {
		return nil, newParseError(FieldTemperature, "")
	}
	report.TemperatureC, report.DewpointC, err = parseTemperature(tempToken)
	if err != nil {
		return nil, err
	}
	idx++

	// 10. Altimeter group
	pressureToken, ok := next()
	if !ok {
		return nil, newParseError(FieldPressure, "")
	}
	report.PressureHPa, err = parsePressure(pressureToken)
	if err != nil {
		return nil, err
	}
	idx++

	// 11. Remaining tokens are trend groups and remarks, ignored.
	return report, nil
}

// ParseBatch parses one METAR per line and returns the reports keyed by
// station. Lines that fail to parse are logged and skipped; a malformed
// report never aborts the rest of the batch.
func ParseBatch(text string, now time.Time, log *logger.Logger) map[string]*Report {
	reports := make(map[string]*Report)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		report, err := ParseAt(line, now)
		if err != nil {
			log.Warn("Skipping unparseable METAR",
				logger.String("line", line),
				logger.Error(err))
			continue
		}
		reports[report.Station] = report
	}
	return reports
}
