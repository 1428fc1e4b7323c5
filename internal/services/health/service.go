package health

import "time"

// Status is the payload of the health endpoint.
type Status struct {
	OK             bool   `json:"ok"`
	Provider       string `json:"provider"`
	Model          string `json:"model,omitempty"`
	LLMConfigured  bool   `json:"llmConfigured"`
	ExtractorReady bool   `json:"extractorReady"`
	UptimeSeconds  int64  `json:"uptimeSeconds"`
}

// Service reports whether the analysis dependencies are usable.
type Service struct {
	provider       string
	model          string
	llmConfigured  bool
	extractorReady func() bool
	started        time.Time
	now            func() time.Time
}

// NewService constructs a health service. extractorReady may be nil.
func NewService(provider, model string, llmConfigured bool, extractorReady func() bool) *Service {
	return &Service{
		provider:       provider,
		model:          model,
		llmConfigured:  llmConfigured,
		extractorReady: extractorReady,
		started:        time.Now(),
		now:            time.Now,
	}
}

// Status returns the current health. The process is OK as long as it serves
// requests; missing dependencies are reported but do not fail the check.
func (s *Service) Status() Status {
	ready := false
	if s.extractorReady != nil {
		ready = s.extractorReady()
	}
	return Status{
		OK:             true,
		Provider:       s.provider,
		Model:          s.model,
		LLMConfigured:  s.llmConfigured,
		ExtractorReady: ready,
		UptimeSeconds:  int64(s.now().Sub(s.started) / time.Second),
	}
}
