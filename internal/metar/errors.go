package metar

import "fmt"

// Field identifies the METAR group a parse error refers to
type Field string

const (
	FieldStation     Field = "station"
	FieldTime        Field = "time"
	FieldWind        Field = "wind"
	FieldTemperature Field = "temperature"
	FieldPressure    Field = "pressure"
)

// ParseError reports a malformed or missing mandatory METAR group.
// A ParseError is fatal for the report it occurred in, but callers
// processing a batch must continue with the remaining reports.
type ParseError struct {
	Field Field
	Token string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("metar: missing %s group", e.Field)
	}
	return fmt.Sprintf("metar: invalid %s token %q", e.Field, e.Token)
}

func newParseError(field Field, token string) *ParseError {
	return &ParseError{Field: field, Token: token}
}
