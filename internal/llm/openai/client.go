// Package openai implements llm.Client for OpenAI-compatible chat completion
// APIs, DeepSeek included.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-ats/internal/llm"
	"resume-ats/internal/shared/telemetry"
)

const (
	DeepSeekBaseURL      = "https://api.deepseek.com/v1"
	OpenAIBaseURL        = "https://api.openai.com/v1"
	DefaultDeepSeekModel = "deepseek-chat"
	DefaultOpenAIModel   = "gpt-4o-mini"

	defaultTimeout = 60 * time.Second
	temperature    = float32(0.2)
	maxTokens      = 2000
)

// Options configures a Client. Zero values fall back to the provider's defaults,
// DeepSeek when Provider is empty.
type Options struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements llm.Client using the Chat Completions API.
type Client struct {
	provider   string
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new chat completion client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("API key is required for %s", providerName(opts.Provider))
	}
	provider := providerName(opts.Provider)
	defaultBase, defaultModel := DeepSeekBaseURL, DefaultDeepSeekModel
	if provider == "openai" {
		defaultBase, defaultModel = OpenAIBaseURL, DefaultOpenAIModel
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBase
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		provider:   provider,
		apiKey:     opts.APIKey,
		model:      model,
		endpoint:   base + "/chat/completions",
		httpClient: httpClient,
	}, nil
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *chatResponseUsage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one chat completion request. Empty content is returned as is.
func (c *Client) Complete(ctx context.Context, prompt llm.Prompt) (llm.Reply, error) {
	temp := temperature
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature:    &temp,
		MaxTokens:      maxTokens,
		ResponseFormat: responseFormat{Type: "text"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Reply{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.Reply{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return llm.Reply{}, fmt.Errorf("%s request timeout: %w", c.provider, errors.Join(llm.ErrTimeout, err))
		}
		return llm.Reply{}, &llm.RequestError{Provider: c.provider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Reply{}, &llm.RequestError{Provider: c.provider, StatusCode: resp.StatusCode, Err: err}
	}
	duration := time.Since(start)

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return llm.Reply{}, &llm.RequestError{Provider: c.provider, StatusCode: resp.StatusCode, Message: snippet(body, resp.Status)}
		}
		return llm.Reply{}, &llm.RequestError{Provider: c.provider, StatusCode: resp.StatusCode, Message: "malformed response envelope", Err: err}
	}
	if parsed.Error != nil || resp.StatusCode >= 400 {
		reqErr := &llm.RequestError{Provider: c.provider, StatusCode: resp.StatusCode, Message: snippet(body, resp.Status)}
		if parsed.Error != nil {
			reqErr.Message = parsed.Error.Message
			reqErr.Type = parsed.Error.Type
		}
		return llm.Reply{}, reqErr
	}
	if len(parsed.Choices) == 0 {
		return llm.Reply{}, &llm.RequestError{Provider: c.provider, StatusCode: resp.StatusCode, Message: "response missing choices"}
	}

	reply := llm.Reply{
		Content:  parsed.Choices[0].Message.Content,
		Model:    parsed.Model,
		Usage:    toUsage(parsed.Usage),
		Duration: duration,
	}
	if reply.Model == "" {
		reply.Model = c.model
	}
	logUsage(c.provider, reply)
	return reply, nil
}

func toUsage(raw *chatResponseUsage) *llm.Usage {
	if raw == nil {
		return nil
	}
	return &llm.Usage{
		PromptTokens:     raw.PromptTokens,
		CompletionTokens: raw.CompletionTokens,
		TotalTokens:      raw.TotalTokens,
	}
}

func logUsage(provider string, reply llm.Reply) {
	fields := map[string]any{
		"provider":    provider,
		"model":       reply.Model,
		"duration_ms": reply.Duration.Milliseconds(),
		"chars":       len(reply.Content),
	}
	if reply.Usage != nil {
		fields["prompt_tokens"] = reply.Usage.PromptTokens
		fields["completion_tokens"] = reply.Usage.CompletionTokens
		fields["total_tokens"] = reply.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

func snippet(body []byte, fallback string) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return fallback
	}
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}

func providerName(p string) string {
	if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
		return p
	}
	return "deepseek"
}

var _ llm.Client = (*Client)(nil)
