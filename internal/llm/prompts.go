package llm

import (
	_ "embed"
	"fmt"
	"strings"

	"resume-ats/internal/shared/util"
)

//go:embed prompts/ats_system.txt
var atsSystemPrompt string

const (
	// MaxResumeChars is how much of the résumé is sent to the model.
	MaxResumeChars = 3000
	// MaxJobDescriptionChars is how much of the job description is sent to the model.
	MaxJobDescriptionChars = 500
)

// PromptInput carries the validated request fields interpolated into the prompt.
type PromptInput struct {
	Industry        string
	ExperienceLevel string
	JobDescription  string
	ResumeText      string
}

// SystemPrompt returns the fixed instructions that define the reply format.
func SystemPrompt() string {
	return strings.TrimSpace(atsSystemPrompt)
}

// BuildAnalysisPrompt renders the system/user prompt pair for one analysis.
func BuildAnalysisPrompt(in PromptInput) Prompt {
	user := fmt.Sprintf("**Área:** %s\n**Nível:** %s\n**Descrição da Vaga:** %s\n**Currículo:** %s",
		in.Industry,
		in.ExperienceLevel,
		Truncate(in.JobDescription, MaxJobDescriptionChars),
		SanitizeResume(in.ResumeText),
	)
	return Prompt{System: SystemPrompt(), User: user}
}

// SanitizeResume truncates the résumé to MaxResumeChars, then folds line breaks
// and whitespace runs into single spaces.
func SanitizeResume(text string) string {
	return strings.Join(strings.Fields(Truncate(text, MaxResumeChars)), " ")
}

// Truncate keeps at most n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// PromptHash identifies a rendered prompt without logging its content.
func PromptHash(p Prompt) string {
	return util.HashText("system: " + p.System + "\n\nuser: " + p.User)
}
