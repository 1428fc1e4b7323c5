package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client abstracts chat-completion providers for résumé analysis.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (Reply, error)
}

// Prompt is a system/user message pair.
type Prompt struct {
	System string
	User   string
}

// Usage reports token counts when the provider returns them.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Reply is the raw model answer. Content carries no structural guarantee.
type Reply struct {
	Content  string
	Model    string
	Usage    *Usage
	Duration time.Duration
}

// ErrTimeout is wrapped by errors for requests that exceeded their deadline.
var ErrTimeout = errors.New("llm request timed out")

// RequestError is a failed upstream call. StatusCode is 0 when no HTTP status
// was received.
type RequestError struct {
	Provider   string
	StatusCode int
	Message    string
	Type       string
	Err        error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(" request failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, " (%s)", e.Type)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

var rateLimitPhrases = []string{"rate limit", "rate_limit", "quota", "too many requests"}

// HTTPStatus maps an upstream failure to the status returned to API callers:
// rate limiting and quota exhaustion become 429, everything else 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusTooManyRequests {
		return http.StatusTooManyRequests
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range rateLimitPhrases {
		if strings.Contains(msg, phrase) {
			return http.StatusTooManyRequests
		}
	}
	return http.StatusInternalServerError
}
