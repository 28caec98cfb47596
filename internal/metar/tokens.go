package metar

import (
	"regexp"
	"strconv"
)

var (
	windRe     = regexp.MustCompile(`^(\d{3}|VRB)(\d{2,3})(?:G(\d{2,3}))?KT$`)
	varRangeRe = regexp.MustCompile(`^(\d{3})V(\d{3})$`)
	visRe      = regexp.MustCompile(`^(\d+)`)
	precipRe   = regexp.MustCompile(`^([-+]?)(TS|SH)?(RA|SN|DZ|GR|GS|PL|IC|UP)$`)
	cloudRe    = regexp.MustCompile(`^(FEW|SCT|BKN|OVC|VV)(\d{3})`)
	tempRe     = regexp.MustCompile(`^(M?\d{1,2})/(M?\d{1,2})$`)
	pressureRe = regexp.MustCompile(`^Q(\d{4})$`)
	timeRe     = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z$`)
)

// ParseWind parses a wind group such as "07013KT", "VRB02KT" or
// "24015G27KT". The variability arc, if reported, is a separate group
// attached afterwards via ParseVariableRange.
func ParseWind(token string) (Wind, error) {
	m := windRe.FindStringSubmatch(token)
	if m == nil {
		return Wind{}, newParseError(FieldWind, token)
	}

	var w Wind
	if m[1] == "VRB" {
		w.Variable = true
	} else {
		// 360 is reported for a due-north wind; fold it to 0
		w.Direction, _ = strconv.Atoi(m[1])
		w.Direction %= 360
	}
	w.Speed, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		w.Gust, _ = strconv.Atoi(m[3])
	}
	return w, nil
}

// ParseVariableRange parses a wind variability group such as "340V060"
// into its low/high boundaries. The arc may wrap through north.
func ParseVariableRange(token string) (VariableRange, bool) {
	m := varRangeRe.FindStringSubmatch(token)
	if m == nil {
		return VariableRange{}, false
	}
	low, _ := strconv.Atoi(m[1])
	high, _ := strconv.Atoi(m[2])
	return VariableRange{Low: low % 360, High: high % 360}, true
}

// ParseCloud parses a cloud layer group such as "FEW004" or "BKN040///".
// Only the first three digits (hundreds of feet) are used.
func ParseCloud(token string) (Cloud, bool) {
	m := cloudRe.FindStringSubmatch(token)
	if m == nil {
		return Cloud{}, false
	}
	height, _ := strconv.Atoi(m[2])
	return Cloud{Type: CloudType(m[1]), HeightFt: height * 100}, true
}

// ParsePrecipitation parses a present-weather group such as "-SN", "+RA"
// or "-SHSN". Intensity comes from the leading "-"/"+" sign; a TS/SH
// descriptor is preserved but the reported kind is the base phenomenon.
func ParsePrecipitation(token string) (Precipitation, bool) {
	m := precipRe.FindStringSubmatch(token)
	if m == nil {
		return Precipitation{}, false
	}
	intensity := Moderate
	switch m[1] {
	case "-":
		intensity = Light
	case "+":
		intensity = Heavy
	}
	return Precipitation{
		Kind:       PrecipitationKind(m[3]),
		Descriptor: m[2],
		Intensity:  intensity,
	}, true
}

// parseTemperature parses a temperature/dewpoint group such as "09/M03"
// or "M04/M07". The "M" prefix denotes a negative value.
func parseTemperature(token string) (temp, dewpoint int, err error) {
	m := tempRe.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, newParseError(FieldTemperature, token)
	}
	return signedDegrees(m[1]), signedDegrees(m[2]), nil
}

func signedDegrees(s string) int {
	if s[0] == 'M' {
		v, _ := strconv.Atoi(s[1:])
		return -v
	}
	v, _ := strconv.Atoi(s)
	return v
}

// parsePressure parses an altimeter group such as "Q1013".
func parsePressure(token string) (int, error) {
	m := pressureRe.FindStringSubmatch(token)
	if m == nil {
		return 0, newParseError(FieldPressure, token)
	}
	v, _ := strconv.Atoi(m[1])
	return v, nil
}
