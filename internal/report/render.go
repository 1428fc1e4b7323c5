package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const barWidth = 20

// Render writes the view in the requested format. Unknown formats render as human.
func Render(w io.Writer, v View, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(out))
		return err
	default:
		renderHuman(w, v)
		return nil
	}
}

func renderHuman(w io.Writer, v View) {
	heading := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow, color.Bold)

	fmt.Fprintln(w)
	if v.Fallback {
		warn.Fprintln(w, "Não foi possível interpretar a resposta do modelo. Exibindo valores padrão.")
		fmt.Fprintln(w)
	}

	scoreColor(v.Score).Fprintf(w, "PONTUAÇÃO ATS: %d/100 %s\n", v.Score, scoreBar(v.Score))
	fmt.Fprintf(w, "   %s\n", v.ATS)
	if v.Compatibility != "" {
		fmt.Fprintf(w, "   Compatibilidade: %s\n", v.Compatibility)
	}
	fmt.Fprintln(w)

	good.Fprintln(w, "PONTOS FORTES:")
	for i, s := range v.Strengths {
		fmt.Fprintf(w, "   %d. %s\n", i+1, s)
	}
	fmt.Fprintln(w)

	warn.Fprintln(w, "MELHORIAS CRÍTICAS:")
	for i, imp := range v.Improvements {
		fmt.Fprintf(w, "   %d. %s\n", i+1, imp.Heading)
		if imp.Body != "" {
			fmt.Fprintf(w, "      %s %s\n", arrow, color.GreenString(imp.Body))
		}
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "PALAVRAS-CHAVE:")
	fmt.Fprintf(w, "   %s\n\n", strings.Join(v.Keywords, ", "))

	heading.Fprintln(w, "FORMATAÇÃO:")
	fmt.Fprintf(w, "   %s\n\n", strings.ReplaceAll(v.Formatting, "\n", "\n   "))

	if v.Template != "" {
		heading.Fprintln(w, "MODELO RECOMENDADO:")
		fmt.Fprintf(w, "   %s\n\n", v.Template)
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%s\n", color.HiBlackString("Use -o json ou -o yaml para saída estruturada"))
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 75:
		return color.New(color.FgGreen, color.Bold)
	case score >= 50:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func scoreBar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score * barWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}
