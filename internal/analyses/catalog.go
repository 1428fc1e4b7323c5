package analyses

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Industry is the professional area the résumé is evaluated against.
type Industry string

const (
	IndustryGeral          Industry = "GERAL"
	IndustryTI             Industry = "TI"
	IndustrySaude          Industry = "SAUDE"
	IndustryVendas         Industry = "VENDAS"
	IndustryAdministrativo Industry = "ADMINISTRATIVO"
	IndustryEngenharia     Industry = "ENGENHARIA"
)

// ExperienceLevel is the seniority the résumé is evaluated for.
type ExperienceLevel string

const (
	LevelEstagio ExperienceLevel = "ESTAGIO"
	LevelJunior  ExperienceLevel = "JUNIOR"
	LevelPleno   ExperienceLevel = "PLENO"
	LevelSenior  ExperienceLevel = "SENIOR"
)

var (
	ErrInvalidIndustry        = errors.New("industry is invalid")
	ErrInvalidExperienceLevel = errors.New("experience level is invalid")
)

var industries = []Industry{IndustryGeral, IndustryTI, IndustrySaude, IndustryVendas, IndustryAdministrativo, IndustryEngenharia}

var industryLabels = map[Industry]string{
	IndustryGeral:          "Geral",
	IndustryTI:             "Tecnologia",
	IndustrySaude:          "Saúde",
	IndustryVendas:         "Vendas",
	IndustryAdministrativo: "Administrativo",
	IndustryEngenharia:     "Engenharia",
}

// TECNOLOGIA is what the form label normalizes to.
var industryAliases = map[string]Industry{
	"TECNOLOGIA": IndustryTI,
}

var levels = []ExperienceLevel{LevelEstagio, LevelJunior, LevelPleno, LevelSenior}

var levelLabels = map[ExperienceLevel]string{
	LevelEstagio: "Estágio",
	LevelJunior:  "Júnior",
	LevelPleno:   "Pleno",
	LevelSenior:  "Sênior",
}

// ParseIndustry normalizes case and accents. Empty input means IndustryGeral.
func ParseIndustry(raw string) (Industry, error) {
	code := normalizeCode(raw)
	if code == "" {
		return IndustryGeral, nil
	}
	if ind, ok := industryAliases[code]; ok {
		return ind, nil
	}
	if _, ok := industryLabels[Industry(code)]; ok {
		return Industry(code), nil
	}
	return "", ErrInvalidIndustry
}

// ParseExperienceLevel normalizes case and accents. Empty input means LevelPleno.
func ParseExperienceLevel(raw string) (ExperienceLevel, error) {
	code := normalizeCode(raw)
	if code == "" {
		return LevelPleno, nil
	}
	if _, ok := levelLabels[ExperienceLevel(code)]; ok {
		return ExperienceLevel(code), nil
	}
	return "", ErrInvalidExperienceLevel
}

// Label returns the display name of the industry.
func (i Industry) Label() string {
	return industryLabels[i]
}

// Label returns the display name of the experience level.
func (l ExperienceLevel) Label() string {
	return levelLabels[l]
}

// Industries lists the accepted industries in display order.
func Industries() []Industry {
	return append([]Industry(nil), industries...)
}

// ExperienceLevels lists the accepted levels from junior-most to senior-most.
func ExperienceLevels() []ExperienceLevel {
	return append([]ExperienceLevel(nil), levels...)
}

func normalizeCode(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(raw))
	if err != nil {
		folded = strings.TrimSpace(raw)
	}
	return strings.ToUpper(folded)
}
