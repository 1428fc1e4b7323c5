package parser

import (
	"reflect"
	"testing"
)

func TestExtractSection(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		start, end string
		want       string
	}{
		{name: "between markers", doc: "ATS_SCORE: 70/100\nATS_COMPATIBILITY: PARCIAL", start: "ATS_SCORE", end: "ATS_COMPATIBILITY", want: "70/100"},
		{name: "missing start", doc: "nothing here", start: "ATS_SCORE", end: "\n\n", want: ""},
		{name: "missing end runs to end", doc: "TEMPLATE_SUGGESTION: Clássico  ", start: "TEMPLATE_SUGGESTION", end: "\n\n", want: "Clássico"},
		{name: "end searched after start", doc: "\n\nFORMATTING_ISSUES:\n- a\n\nTEMPLATE", start: "FORMATTING_ISSUES", end: "\n\n", want: "- a"},
		{name: "only one colon stripped", doc: "X:: value", start: "X", end: "\n\n", want: ": value"},
		{name: "marker inside prose", doc: "veja KEY_STRENGTHS abaixo\n\nKEY_STRENGTHS:\n- real", start: "KEY_STRENGTHS", end: "\n\n", want: "abaixo"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSection(tt.doc, tt.start, tt.end); got != tt.want {
				t.Fatalf("ExtractSection() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractListItemsKeepsOnlyHyphenLines(t *testing.T) {
	doc := "KEY_STRENGTHS:\n- um\nsem hífen\n  -   dois  \noutra linha\n-três\n\n- fora da seção"
	got := ExtractListItems(doc, MarkerStrengths)
	want := []string{"um", "dois", "três"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractListItems() = %#v, want %#v", got, want)
	}
}

func TestExtractListItemsMissingMarker(t *testing.T) {
	got := ExtractListItems("- solto", MarkerStrengths)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestExtractKeywordsFlattensGroups(t *testing.T) {
	doc := "KEYWORD_ANALYSIS:\nSetoriais: a, b\nSoft Skills: c\nNoColon line\n\nFORMATTING_ISSUES:\n- x"
	got := ExtractKeywords(doc, MarkerKeywords)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractKeywords() = %#v, want %#v", got, want)
	}
}

func TestExtractKeywordsSplitsOnFirstColonOnly(t *testing.T) {
	doc := "KEYWORD_ANALYSIS:\nTecnologias: Go, HTTP: REST, , gRPC"
	got := ExtractKeywords(doc, MarkerKeywords)
	want := []string{"Go", "HTTP: REST", "gRPC"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractKeywords() = %#v, want %#v", got, want)
	}
}
