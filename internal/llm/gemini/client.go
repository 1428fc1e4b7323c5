// Package gemini implements llm.Client on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-ats/internal/llm"
	"resume-ats/internal/shared/telemetry"
)

const (
	DefaultModel = "gemini-2.5-flash"

	defaultTimeout = 60 * time.Second
	temperature    = float32(0.2)
	maxTokens      = 2000
)

// Options configures a Client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements llm.Client using google.golang.org/genai.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("API key is required for gemini")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{client: client, model: model, timeout: timeout}, nil
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the prompt as a single generation request.
func (c *Client) Complete(ctx context.Context, prompt llm.Prompt) (llm.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temp := temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   maxTokens,
		ResponseMIMEType:  "text/plain",
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), config)
	if err != nil {
		return llm.Reply{}, toRequestError(err)
	}
	if resp == nil {
		return llm.Reply{}, &llm.RequestError{Provider: "gemini", Message: "no response generated"}
	}

	reply := llm.Reply{
		Content:  resp.Text(),
		Model:    c.model,
		Duration: time.Since(start),
	}
	if resp.ModelVersion != "" {
		reply.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		reply.Usage = &llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	telemetry.Info("llm.response", map[string]any{
		"provider":    "gemini",
		"model":       reply.Model,
		"duration_ms": reply.Duration.Milliseconds(),
		"chars":       len(reply.Content),
	})
	return reply, nil
}

func toRequestError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gemini request timeout: %w", errors.Join(llm.ErrTimeout, err))
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.RequestError{Provider: "gemini", StatusCode: apiErr.Code, Message: apiErr.Message, Type: apiErr.Status, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &llm.RequestError{Provider: "gemini", StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message, Type: apiErrPtr.Status, Err: err}
	}
	return &llm.RequestError{Provider: "gemini", Err: err}
}

var _ llm.Client = (*Client)(nil)
