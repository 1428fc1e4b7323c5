// Package parser turns the model's free-text ATS report into a StructuredAnalysis.
//
// The reply is expected to carry fixed section markers (ATS_SCORE, KEY_STRENGTHS,
// CRITICAL_IMPROVEMENTS, KEYWORD_ANALYSIS, FORMATTING_ISSUES, ...) separated by blank
// lines. Markers are located by plain substring search. Callers that must always
// render something use SafeParse or ParseAnalysis, which substitute Fallback for any
// reply that cannot be parsed.
package parser

import (
	"fmt"
	"strings"
)

const (
	MarkerScore         = "ATS_SCORE"
	MarkerCompatibility = "ATS_COMPATIBILITY"
	MarkerStrengths     = "KEY_STRENGTHS"
	MarkerImprovements  = "CRITICAL_IMPROVEMENTS"
	MarkerKeywords      = "KEYWORD_ANALYSIS"
	MarkerFormatting    = "FORMATTING_ISSUES"
	MarkerTemplate      = "TEMPLATE_SUGGESTION"

	// Separator is the dashed line the prompt places above the answer format.
	// Models sometimes echo it back ahead of the report.
	Separator = "\n--------------------------\n"
)

// RequiredMarkers must all be present for a reply to be parsed.
var RequiredMarkers = []string{
	MarkerScore,
	MarkerStrengths,
	MarkerImprovements,
	MarkerKeywords,
	MarkerFormatting,
}

// StructuredAnalysis is the parsed view of a model reply.
type StructuredAnalysis struct {
	ATS           string   `json:"ats" yaml:"ats"`
	Compatibility string   `json:"compatibility" yaml:"compatibility"`
	Strengths     []string `json:"strengths" yaml:"strengths"`
	Improvements  []string `json:"improvements" yaml:"improvements"`
	Keywords      []string `json:"keywords" yaml:"keywords"`
	Formatting    string   `json:"formatting" yaml:"formatting"`
	Template      string   `json:"template" yaml:"template"`
}

// Parser converts a reply document into a StructuredAnalysis.
type Parser interface {
	Parse(document string) (StructuredAnalysis, error)
}

// Markers parses the marker-delimited section format.
type Markers struct{}

// Parse extracts every section. It fails with ErrMalformedAnalysis when the
// document is blank and with *MissingMarkersError when a required marker is absent.
func (Markers) Parse(document string) (StructuredAnalysis, error) {
	doc := normalizeNewlines(document)
	if len(blocks(doc)) == 0 {
		return StructuredAnalysis{}, ErrMalformedAnalysis
	}
	if missing := MissingMarkers(doc); len(missing) > 0 {
		return StructuredAnalysis{}, &MissingMarkersError{Markers: missing}
	}
	return StructuredAnalysis{
		ATS:           ExtractSection(doc, MarkerScore, MarkerCompatibility),
		Compatibility: ExtractSection(doc, MarkerCompatibility, blankLine),
		Strengths:     ExtractListItems(doc, MarkerStrengths),
		Improvements:  ExtractListItems(doc, MarkerImprovements),
		Keywords:      ExtractKeywords(doc, MarkerKeywords),
		Formatting:    ExtractSection(doc, MarkerFormatting, MarkerTemplate),
		Template:      ExtractSection(doc, MarkerTemplate, blankLine),
	}, nil
}

// MissingMarkers returns the required markers that do not occur in document.
func MissingMarkers(document string) []string {
	var missing []string
	for _, m := range RequiredMarkers {
		if !strings.Contains(document, m) {
			missing = append(missing, m)
		}
	}
	return missing
}

// SafeParse runs p and never fails: on an error or panic it returns Fallback
// together with the cause, which is meant for logging only.
func SafeParse(p Parser, document string) (result StructuredAnalysis, cause error) {
	if p == nil {
		p = Markers{}
	}
	defer func() {
		if rec := recover(); rec != nil {
			result = Fallback()
			cause = fmt.Errorf("%w: parser panic: %v", ErrMalformedAnalysis, rec)
		}
	}()
	parsed, err := p.Parse(document)
	if err != nil {
		return Fallback(), err
	}
	return parsed, nil
}

// ParseAnalysis parses document with the marker grammar, falling back to the
// placeholder analysis on any failure.
func ParseAnalysis(document string) StructuredAnalysis {
	result, _ := SafeParse(Markers{}, document)
	return result
}

// Fallback returns the placeholder analysis shown when a reply cannot be parsed.
func Fallback() StructuredAnalysis {
	return StructuredAnalysis{
		ATS:           "Não foi possível analisar a compatibilidade ATS",
		Compatibility: "Não foi possível determinar a compatibilidade",
		Strengths:     []string{"Não foi possível identificar os pontos fortes"},
		Improvements:  []string{"Não foi possível gerar sugestões de melhoria"},
		Keywords:      []string{"Não foi possível extrair palavras-chave"},
		Formatting:    "Não foi possível analisar a formatação",
		Template:      "Não foi possível sugerir um modelo",
	}
}

// Body returns the report portion of a raw reply. When the model echoed the
// dashed separator, the report is the text that follows the first one.
func Body(raw string) string {
	parts := strings.Split(normalizeNewlines(raw), Separator)
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		return parts[1]
	}
	return raw
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func blocks(doc string) []string {
	var out []string
	for _, b := range strings.Split(doc, blankLine) {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return out
}
