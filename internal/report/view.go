// Package report derives what is shown to the user from a parsed analysis.
package report

import (
	"regexp"
	"strconv"
	"strings"

	"resume-ats/internal/parser"
)

const arrow = "→"

var digitsPattern = regexp.MustCompile(`[0-9]+`)

// Improvement is a critical improvement split into its priority and suggested fix.
type Improvement struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`
}

// View is the display form of an analysis. Brackets are removed from every field.
type View struct {
	Score         int           `json:"score" yaml:"score"`
	ATS           string        `json:"ats" yaml:"ats"`
	Compatibility string        `json:"compatibility" yaml:"compatibility"`
	Strengths     []string      `json:"strengths" yaml:"strengths"`
	Improvements  []Improvement `json:"improvements" yaml:"improvements"`
	Keywords      []string      `json:"keywords" yaml:"keywords"`
	Formatting    string        `json:"formatting" yaml:"formatting"`
	Template      string        `json:"template" yaml:"template"`
	Fallback      bool          `json:"fallback" yaml:"fallback"`
}

// Build converts a parsed analysis into its display form.
func Build(a parser.StructuredAnalysis, fallback bool) View {
	v := View{
		Score:         Score(a.ATS),
		ATS:           StripBrackets(a.ATS),
		Compatibility: StripBrackets(a.Compatibility),
		Strengths:     stripAll(a.Strengths),
		Improvements:  make([]Improvement, 0, len(a.Improvements)),
		Keywords:      stripAll(a.Keywords),
		Formatting:    StripBrackets(a.Formatting),
		Template:      StripBrackets(a.Template),
		Fallback:      fallback,
	}
	for _, item := range a.Improvements {
		v.Improvements = append(v.Improvements, SplitImprovement(StripBrackets(item)))
	}
	return v
}

// Score returns the first run of digits in the ATS summary, or 0 if there is none.
func Score(ats string) int {
	m := digitsPattern.FindString(ats)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// StripBrackets removes every '[' and ']' from s.
func StripBrackets(s string) string {
	return strings.NewReplacer("[", "", "]", "").Replace(s)
}

// SplitImprovement splits an item on its first arrow. Later arrows stay in the body.
func SplitImprovement(item string) Improvement {
	heading, body, _ := strings.Cut(item, arrow)
	return Improvement{
		Heading: strings.TrimSpace(heading),
		Body:    strings.TrimSpace(body),
	}
}

func stripAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, StripBrackets(item))
	}
	return out
}
