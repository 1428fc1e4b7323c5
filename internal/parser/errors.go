package parser

import (
	"errors"
	"strings"
)

// ErrMalformedAnalysis reports a reply that does not follow the section format.
var ErrMalformedAnalysis = errors.New("malformed analysis")

// MissingMarkersError lists the required section markers absent from a reply.
type MissingMarkersError struct {
	Markers []string
}

func (e *MissingMarkersError) Error() string {
	return "malformed analysis: missing sections " + strings.Join(e.Markers, ", ")
}

func (e *MissingMarkersError) Unwrap() error {
	return ErrMalformedAnalysis
}
