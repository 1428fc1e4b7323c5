package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"resume-ats/internal/shared/telemetry"
)

const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
)

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	CORSAllowOrigin    []string
	LLMProvider        string
	LLMModel           string
	LLMBaseURL         string
	LLMAPIKey          string
	LLMTimeout         time.Duration
	ExtractTimeout     time.Duration
	ExtractPageTimeout time.Duration
	MaxUploadBytes     int64
	AnalyzePerMinute   int
	AnalyzeBurst       int
}

// Load reads configuration from environment variables with sensible defaults.
// Values from .env files never override the real environment.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) Config {
	get := func(key, def string) string {
		if val := strings.TrimSpace(getenv(key)); val != "" {
			return val
		}
		return def
	}

	provider := normalizeProvider(get("LLM_PROVIDER", ProviderDeepSeek))
	return Config{
		Port:               get("PORT", "8080"),
		Env:                normalizeEnv(get("ENV", "dev")),
		CORSAllowOrigin:    splitAndTrim(get("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		LLMProvider:        provider,
		LLMModel:           get("LLM_MODEL", ""),
		LLMBaseURL:         get("LLM_BASE_URL", ""),
		LLMAPIKey:          get("LLM_API_KEY", getenv(providerKeyVar(provider))),
		LLMTimeout:         seconds(get, "LLM_TIMEOUT_SECONDS", 60),
		ExtractTimeout:     seconds(get, "EXTRACT_TIMEOUT_SECONDS", 60),
		ExtractPageTimeout: seconds(get, "EXTRACT_PAGE_TIMEOUT_SECONDS", 30),
		MaxUploadBytes:     int64(positiveInt(get, "MAX_UPLOAD_BYTES", 2<<20)),
		AnalyzePerMinute:   positiveInt(get, "RATE_LIMIT_ANALYZE_PER_MINUTE", 5),
		AnalyzeBurst:       positiveInt(get, "RATE_LIMIT_ANALYZE_BURST", 5),
	}
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			telemetry.Warn("config.env_file_invalid", map[string]any{"path": path, "error": err.Error()})
		}
	}
}

func providerKeyVar(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "DEEPSEEK_API_KEY"
	}
}

func seconds(get func(string, string) string, key string, def int) time.Duration {
	return time.Duration(positiveInt(get, key, def)) * time.Second
}

func positiveInt(get func(string, string) string, key string, def int) int {
	raw := get(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return n
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ProviderOpenAI:
		return ProviderOpenAI
	case ProviderGemini, "google":
		return ProviderGemini
	default:
		return ProviderDeepSeek
	}
}
