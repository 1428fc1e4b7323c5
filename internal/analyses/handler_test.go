package analyses

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/extract"
	"resume-ats/internal/llm"
)

func newTestRouter(svc *Service, maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, maxUpload)
	r.POST("/analyze", h.Analyze)
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func postFile(r http.Handler, path, contentType string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="curriculo.pdf"`)
	header.Set("Content-Type", contentType)
	part, _ := mw.CreatePart(header)
	_, _ = part.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, resp.Body.String())
	}
	return body
}

func TestAnalyzeEndpointSuccess(t *testing.T) {
	quiet(t)
	fake := &fakeLLM{reply: llm.Reply{Content: sampleReply}}
	r := newTestRouter(NewService(fake, nil, "deepseek", "deepseek-chat"), 0)

	for _, path := range []string{"/analyze", "/api/analyze"} {
		resp := postJSON(r, path, map[string]string{
			"text":            resumeText(800),
			"industry":        "TI",
			"experienceLevel": "PLENO",
		})
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, resp.Code, resp.Body.String())
		}
		body := decodeBody(t, resp)
		for _, key := range []string{"rawAnalysis", "structuredAnalysis", "report", "metadata"} {
			if _, ok := body[key]; !ok {
				t.Fatalf("%s: missing %s", path, key)
			}
		}
		structured := body["structuredAnalysis"].(map[string]any)
		if structured["ats"] != "[85]/100" {
			t.Fatalf("unexpected ats %v", structured["ats"])
		}
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	quiet(t)
	fake := &fakeLLM{reply: llm.Reply{Content: sampleReply}}
	r := newTestRouter(NewService(fake, nil, "deepseek", "deepseek-chat"), 0)

	resp := postJSON(r, "/analyze", map[string]string{"text": resumeText(100), "industry": "MARKETING"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Dados inválidos" || body["code"] != ErrorCodeValidation {
		t.Fatalf("unexpected body %v", body)
	}
	details, ok := body["details"].([]any)
	if !ok || len(details) != 2 {
		t.Fatalf("expected two field errors, got %v", body["details"])
	}
	first := details[0].(map[string]any)
	for _, key := range []string{"field", "issue", "message"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("field error missing %s: %v", key, first)
		}
	}
	if fake.calls() != 0 {
		t.Fatalf("model must not be called")
	}
}

func TestAnalyzeEndpointInvalidJSON(t *testing.T) {
	quiet(t)
	r := newTestRouter(NewService(&fakeLLM{}, nil, "", ""), 0)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if body := decodeBody(t, resp); body["code"] != ErrorCodeValidation {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAnalyzeEndpointUpstreamErrors(t *testing.T) {
	quiet(t)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"rate limited", &llm.RequestError{Provider: "deepseek", StatusCode: 429, Message: "rate limit exceeded"}, http.StatusTooManyRequests, ErrorCodeRateLimited},
		{"quota", &llm.RequestError{Provider: "deepseek", StatusCode: 402, Message: "Insufficient quota"}, http.StatusTooManyRequests, ErrorCodeRateLimited},
		{"other", &llm.RequestError{Provider: "deepseek", StatusCode: 500, Message: "internal"}, http.StatusInternalServerError, ErrorCodeUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(NewService(&fakeLLM{err: tc.err}, nil, "deepseek", "deepseek-chat"), 0)
			resp := postJSON(r, "/analyze", map[string]string{"text": resumeText(500)})
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			body := decodeBody(t, resp)
			if body["error"] != "Erro na análise do currículo" || body["code"] != tc.code {
				t.Fatalf("unexpected body %v", body)
			}
			if details, _ := body["details"].(string); details == "" {
				t.Fatalf("expected details with the upstream cause")
			}
		})
	}
}

func TestAnalyzeEndpointWithoutModel(t *testing.T) {
	quiet(t)
	r := newTestRouter(NewService(nil, nil, "", ""), 0)
	resp := postJSON(r, "/analyze", map[string]string{"text": resumeText(500)})
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestUploadEndpoint(t *testing.T) {
	quiet(t)
	fake := &fakeLLM{reply: llm.Reply{Content: sampleReply}}
	r := newTestRouter(NewService(fake, extract.New(extract.Options{}), "deepseek", "deepseek-chat"), 0)

	resp := postFile(r, "/api/analyze/upload", extract.MimePDF, pdfResume(12), map[string]string{
		"industry":        "Saúde",
		"experienceLevel": "Júnior",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	doc, ok := body["document"].(map[string]any)
	if !ok || doc["fileName"] != "curriculo.pdf" {
		t.Fatalf("unexpected document info %v", body["document"])
	}
	meta := body["metadata"].(map[string]any)
	if meta["industry"] != "SAUDE" || meta["experienceLevel"] != "JUNIOR" {
		t.Fatalf("unexpected metadata %v", meta)
	}
}

func TestUploadEndpointRejectsBeforeExtraction(t *testing.T) {
	quiet(t)
	fake := &fakeLLM{reply: llm.Reply{Content: sampleReply}}
	r := newTestRouter(NewService(fake, extract.New(extract.Options{}), "deepseek", "deepseek-chat"), 1024)

	resp := postFile(r, "/api/analyze/upload", "image/png", []byte("\x89PNG\r\n\x1a\n"), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-pdf, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["code"] != ErrorCodeInvalidFile || body["error"] != "Por favor, envie um arquivo PDF" {
		t.Fatalf("unexpected body %v", body)
	}

	resp = postFile(r, "/api/analyze/upload", extract.MimePDF, bytes.Repeat([]byte("x"), 2048), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for large file, got %d", resp.Code)
	}
	body = decodeBody(t, resp)
	if body["code"] != ErrorCodeFileTooLarge || !strings.Contains(body["error"].(string), "1KB") {
		t.Fatalf("unexpected body %v", body)
	}
	if fake.calls() != 0 {
		t.Fatalf("model must not be called")
	}
}

func TestUploadEndpointExtractionErrors(t *testing.T) {
	quiet(t)
	fake := &fakeLLM{reply: llm.Reply{Content: sampleReply}}
	r := newTestRouter(NewService(fake, extract.New(extract.Options{}), "deepseek", "deepseek-chat"), 0)

	resp := postFile(r, "/api/analyze/upload", extract.MimePDF, []byte("this is not a pdf at all"), nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	if body["code"] != ErrorCodeExtraction || body["error"] != extract.UserMessage(extract.ErrCorrupt) {
		t.Fatalf("unexpected body %v", body)
	}

	r = newTestRouter(NewService(fake, nil, "deepseek", "deepseek-chat"), 0)
	resp = postFile(r, "/api/analyze/upload", extract.MimePDF, pdfResume(12), nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without extractor, got %d", resp.Code)
	}
}

func TestExtractEndpoint(t *testing.T) {
	quiet(t)
	r := newTestRouter(NewService(nil, extract.New(extract.Options{}), "", ""), 0)

	resp := postFile(r, "/api/extract", extract.MimePDF, extract.BuildPDF([]string{"Ana Souza"}, []string{"Python"}), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	if body["pages"] != float64(2) || !strings.Contains(body["text"].(string), "Python") {
		t.Fatalf("unexpected body %v", body)
	}

	resp = postFile(r, "/api/extract", "text/plain", []byte("Ana Souza\nDesenvolvedora"), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for text, got %d", resp.Code)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{2 << 20: "2MB", 3 << 19: "1.5MB", 1024: "1KB", 1500: "2KB"}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
