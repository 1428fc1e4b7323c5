package analyses

import (
	"errors"
	"testing"
)

func TestParseIndustry(t *testing.T) {
	cases := []struct {
		in      string
		want    Industry
		wantErr error
	}{
		{"", IndustryGeral, nil},
		{"TI", IndustryTI, nil},
		{"ti", IndustryTI, nil},
		{"Tecnologia", IndustryTI, nil},
		{"Saúde", IndustrySaude, nil},
		{" vendas ", IndustryVendas, nil},
		{"ENGENHARIA", IndustryEngenharia, nil},
		{"MARKETING", "", ErrInvalidIndustry},
	}
	for _, tc := range cases {
		got, err := ParseIndustry(tc.in)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("ParseIndustry(%q) error = %v, want %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseIndustry(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseExperienceLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    ExperienceLevel
		wantErr error
	}{
		{"", LevelPleno, nil},
		{"Estágio", LevelEstagio, nil},
		{"júnior", LevelJunior, nil},
		{"SENIOR", LevelSenior, nil},
		{"Sênior", LevelSenior, nil},
		{"diretor", "", ErrInvalidExperienceLevel},
	}
	for _, tc := range cases {
		got, err := ParseExperienceLevel(tc.in)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("ParseExperienceLevel(%q) error = %v, want %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseExperienceLevel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLabels(t *testing.T) {
	if IndustryTI.Label() != "Tecnologia" {
		t.Fatalf("unexpected label %q", IndustryTI.Label())
	}
	if LevelSenior.Label() != "Sênior" {
		t.Fatalf("unexpected label %q", LevelSenior.Label())
	}
	if len(Industries()) != 6 || len(ExperienceLevels()) != 4 {
		t.Fatalf("unexpected catalog sizes %d/%d", len(Industries()), len(ExperienceLevels()))
	}
}
