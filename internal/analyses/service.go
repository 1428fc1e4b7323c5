package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"resume-ats/internal/extract"
	"resume-ats/internal/llm"
	"resume-ats/internal/parser"
	"resume-ats/internal/report"
	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/telemetry"
)

// Service runs the analysis pipeline: validate, prompt, request, parse.
// Every step runs once; failures are returned to the caller without retries.
type Service struct {
	LLM       llm.Client
	Extractor *extract.Extractor
	Parser    parser.Parser
	Provider  string
	Model     string
}

// NewService constructs a Service using the marker parser.
func NewService(client llm.Client, extractor *extract.Extractor, provider, model string) *Service {
	return &Service{
		LLM:       client,
		Extractor: extractor,
		Parser:    parser.Markers{},
		Provider:  provider,
		Model:     model,
	}
}

// Analyze validates req and, only when it is valid, asks the model for an
// analysis. A reply that cannot be parsed yields the fallback analysis, not an error.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	metrics.IncAnalysisRequests()
	req.Normalize()
	if err := Validate(req); err != nil {
		metrics.IncAnalysisRejected()
		return Result{}, err
	}
	if s.LLM == nil {
		return Result{}, ErrLLMNotConfigured
	}

	industry := Industry(req.Industry)
	level := ExperienceLevel(req.ExperienceLevel)
	prompt := llm.BuildAnalysisPrompt(llm.PromptInput{
		Industry:        string(industry),
		ExperienceLevel: string(level),
		JobDescription:  req.JobDescription,
		ResumeText:      req.Text,
	})
	promptHash := llm.PromptHash(prompt)
	requestID := requestIDFromContext(ctx)

	start := time.Now()
	reply, err := s.LLM.Complete(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ObserveLLMDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncAnalysisFailed()
		code, _ := classifyFailure(err)
		telemetry.Error("analysis.failed", map[string]any{
			"request_id":  requestID,
			"provider":    s.Provider,
			"model":       s.Model,
			"prompt_hash": promptHash,
			"duration_ms": elapsed.Milliseconds(),
			"code":        code,
			"error":       sanitizeError(err),
		})
		return Result{}, fmt.Errorf("analysis request: %w", err)
	}

	body := parser.Body(reply.Content)
	structured, cause := parser.SafeParse(s.parser(), body)
	fallback := cause != nil
	if fallback {
		metrics.IncAnalysisFallback()
		telemetry.Warn("analysis.fallback", map[string]any{
			"request_id":  requestID,
			"prompt_hash": promptHash,
			"missing":     parser.MissingMarkers(body),
			"reply_chars": utf8.RuneCountInString(reply.Content),
			"error":       sanitizeError(cause),
		})
	}

	model := reply.Model
	if model == "" {
		model = s.Model
	}
	result := Result{
		RawAnalysis:        reply.Content,
		StructuredAnalysis: structured,
		Report:             report.Build(structured, fallback),
		Metadata: Metadata{
			ProcessingTime:       elapsed.Milliseconds(),
			TextLength:           utf8.RuneCountInString(llm.SanitizeResume(req.Text)),
			Industry:             string(industry),
			IndustryLabel:        industry.Label(),
			ExperienceLevel:      string(level),
			ExperienceLevelLabel: level.Label(),
			Provider:             s.Provider,
			Model:                model,
			PromptHash:           promptHash,
			Fallback:             fallback,
			Usage:                reply.Usage,
			RequestID:            requestID,
		},
	}

	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":  requestID,
		"provider":    s.Provider,
		"model":       model,
		"prompt_hash": promptHash,
		"industry":    result.Metadata.Industry,
		"level":       result.Metadata.ExperienceLevel,
		"duration_ms": result.Metadata.ProcessingTime,
		"score":       result.Report.Score,
		"fallback":    fallback,
	})
	return result, nil
}

// AnalyzeDocument extracts the text of an uploaded file and analyzes it.
// Industry and level are validated before extraction. Text beyond MaxTextChars
// is cut off.
func (s *Service) AnalyzeDocument(ctx context.Context, data []byte, mimeType, fileName string, req Request) (Result, error) {
	meta := req
	meta.Text = ""
	meta.Normalize()
	if err := withoutField(Validate(meta), "text"); err != nil {
		metrics.IncAnalysisRejected()
		return Result{}, err
	}

	doc, err := s.Extract(ctx, data, mimeType, fileName)
	if err != nil {
		return Result{}, err
	}

	req.Text = llm.Truncate(doc.Text, MaxTextChars)
	result, err := s.Analyze(ctx, req)
	if err != nil {
		return Result{}, err
	}
	result.Document = documentInfo(fileName, doc, doc.Characters > MaxTextChars)
	return result, nil
}

// Extract returns the text of an uploaded file.
func (s *Service) Extract(ctx context.Context, data []byte, mimeType, fileName string) (extract.Document, error) {
	if s.Extractor == nil {
		return extract.Document{}, extract.ErrEngineInit
	}
	doc, err := s.Extractor.Extract(ctx, data, mimeType, fileName)
	if err != nil {
		metrics.IncExtractionFailed()
		return extract.Document{}, err
	}
	return doc, nil
}

func (s *Service) parser() parser.Parser {
	if s.Parser == nil {
		return parser.Markers{}
	}
	return s.Parser
}

// classifyFailure maps an upstream failure to an error code and whether the
// caller may resubmit.
func classifyFailure(err error) (string, bool) {
	switch {
	case err == nil:
		return ErrorCodeUpstream, false
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeLLMTimeout, true
	case llm.HTTPStatus(err) == 429:
		return ErrorCodeRateLimited, true
	default:
		return ErrorCodeUpstream, false
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	return llm.Truncate(msg, 500)
}
