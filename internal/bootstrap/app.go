package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/analyses"
	"resume-ats/internal/extract"
	"resume-ats/internal/llm"
	"resume-ats/internal/llm/gemini"
	"resume-ats/internal/llm/openai"
	"resume-ats/internal/services/health"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/server"
	"resume-ats/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	LLM             llm.Client
	Model           string
	Extractor       *extract.Extractor
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	Health          *health.Service
}

// Build prepares dependencies and the router. A missing API key is not fatal:
// the server starts and analysis requests fail with 503 until it is configured.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	client, model, err := BuildLLM(ctx, cfg)
	if err != nil && !errors.Is(err, errMissingKey) {
		return nil, err
	}
	if err != nil {
		telemetry.Warn("bootstrap.llm_not_configured", map[string]any{
			"provider": cfg.LLMProvider,
			"error":    err.Error(),
		})
	}

	extractor := BuildExtractor(cfg)
	if err := extractor.Init(ctx); err != nil {
		// retried on the first upload
		telemetry.Warn("bootstrap.extractor_init_failed", map[string]any{"error": err.Error()})
	}

	svc := analyses.NewService(client, extractor, cfg.LLMProvider, model)
	handler := analyses.NewHandler(svc, cfg.MaxUploadBytes)
	healthSvc := health.NewService(cfg.LLMProvider, model, client != nil, extractor.Ready)

	app := &App{
		Config:          cfg,
		LLM:             client,
		Model:           model,
		Extractor:       extractor,
		AnalysesService: svc,
		AnalysisHandler: handler,
		Health:          healthSvc,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
		Health:          healthSvc,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            cfg.Env,
		"provider":       cfg.LLMProvider,
		"model":          model,
		"llm_configured": client != nil,
	})
	return app, nil
}

var errMissingKey = errors.New("llm api key missing")

// BuildLLM constructs the client for cfg.LLMProvider and returns it with the
// effective model name.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, string, error) {
	if cfg.LLMAPIKey == "" {
		return nil, cfg.LLMModel, fmt.Errorf("%w for provider %s", errMissingKey, cfg.LLMProvider)
	}
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Options{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return nil, "", err
		}
		return c, c.Model(), nil
	default:
		c, err := openai.NewClient(openai.Options{
			Provider: cfg.LLMProvider,
			APIKey:   cfg.LLMAPIKey,
			Model:    cfg.LLMModel,
			BaseURL:  cfg.LLMBaseURL,
			Timeout:  cfg.LLMTimeout,
		})
		if err != nil {
			return nil, "", err
		}
		return c, c.Model(), nil
	}
}

// BuildExtractor constructs the text extractor with the configured timeouts.
func BuildExtractor(cfg config.Config) *extract.Extractor {
	return extract.New(extract.Options{
		Timeout:     cfg.ExtractTimeout,
		PageTimeout: cfg.ExtractPageTimeout,
	})
}
