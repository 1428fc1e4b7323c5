package analyses

import (
	"context"
	"strings"
	"sync"

	"resume-ats/internal/llm"
)

const sampleReply = "ATS_SCORE: [85]/100\nATS_COMPATIBILITY: COMPATÍVEL\n\nKEY_STRENGTHS:\n- Liderança de equipe\n- Projetos com métricas\n\nCRITICAL_IMPROVEMENTS:\n- Falta de resumo → Adicionar resumo profissional\n\nKEYWORD_ANALYSIS:\nSetoriais: Python, SQL, Docker\n\nFORMATTING_ISSUES:\n- Fonte inconsistente\n\nTEMPLATE_SUGGESTION: Moderno"

type fakeLLM struct {
	mu      sync.Mutex
	reply   llm.Reply
	err     error
	prompts []llm.Prompt
}

func (f *fakeLLM) Complete(ctx context.Context, prompt llm.Prompt) (llm.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return llm.Reply{}, f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func resumeText(n int) string {
	return strings.Repeat("a", n)
}
