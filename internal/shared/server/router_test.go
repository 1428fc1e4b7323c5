package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/analyses"
	"resume-ats/internal/llm"
	"resume-ats/internal/services/health"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/telemetry"
)

type stubLLM struct{}

func (stubLLM) Complete(ctx context.Context, prompt llm.Prompt) (llm.Reply, error) {
	return llm.Reply{Content: "ATS_SCORE: 70/100\n\nKEY_STRENGTHS:\n- Clareza\n\nCRITICAL_IMPROVEMENTS:\n- Resumo → Adicionar\n\nKEYWORD_ANALYSIS:\nTécnicas: Go\n\nFORMATTING_ISSUES:\n- Nenhum"}, nil
}

func testRouter(t *testing.T, perMinute, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Cleanup(telemetry.SetOutput(io.Discard))

	cfg := config.FromEnv(func(string) string { return "" })
	cfg.AnalyzePerMinute = perMinute
	cfg.AnalyzeBurst = burst
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	svc := analyses.NewService(stubLLM{}, nil, "deepseek", "deepseek-chat")
	return NewRouter(RouterDeps{
		Config:          cfg,
		AnalysisHandler: analyses.NewHandler(svc, cfg.MaxUploadBytes),
		Health:          health.NewService("deepseek", "deepseek-chat", true, nil),
		Limiter:         middleware.NewRateLimiter(func() time.Time { return now }),
	})
}

func analyzeRequest(path string) *http.Request {
	body, _ := json.Marshal(map[string]string{"text": strings.Repeat("x", 600)})
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthAndMetrics(t *testing.T) {
	r := testRouter(t, 5, 5)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.Code)
	}
	var status map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil || status["ok"] != true {
		t.Fatalf("unexpected health body %s", resp.Body.String())
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "analysis_requests_total") {
		t.Fatalf("metrics: unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestAnalyzeRoutesShareRateLimit(t *testing.T) {
	r := testRouter(t, 5, 2)

	for i, path := range []string{"/analyze", "/api/analyze"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, analyzeRequest(path))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d to %s: expected 200, got %d: %s", i+1, path, resp.Code, resp.Body.String())
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, analyzeRequest("/analyze"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("health must not be rate limited, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
