// Package backend talks to the remote text-generation service.
//
// A Client sends one chat-style completion request (system prompt, optional
// user prompt, token budget, determinism setting) and returns the raw text of
// the single completion. Transport failures, non-2xx responses, and malformed
// bodies are retried with exponential backoff; only after the retry budget is
// exhausted does the caller see an error, always of type *Error. Callers
// never receive partial or garbage text silently.
package backend

import (
	"context"
	"fmt"
	"time"
)

// Response format hints. FormatJSON asks the backend to constrain output to a
// JSON object or array when it supports such a hint; the extract package
// still defends against backends that ignore it.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Token budget bounds accepted by the backend.
const (
	MinCompletionTokens = 1
	MaxCompletionTokens = 8000
)

// ClampTokens bounds a requested token budget to the backend's accepted range.
func ClampTokens(n int) int {
	if n < MinCompletionTokens {
		return MinCompletionTokens
	}
	if n > MaxCompletionTokens {
		return MaxCompletionTokens
	}
	return n
}

// CompletionRequest describes one completion call.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string

	// MaxTokens is the completion budget. Clamped to
	// [MinCompletionTokens, MaxCompletionTokens] before sending.
	MaxTokens int

	// Temperature is the sampling temperature. The pipeline uses a fixed
	// low value for deterministic structure; 0 means "use client default".
	Temperature float64

	// ResponseFormat is FormatText or FormatJSON.
	ResponseFormat string

	// RequestID identifies the call in logs. Generated when empty.
	RequestID string
}

// Client is the completion client consumed by the planner stages.
type Client interface {
	// Complete sends the request and returns the completion text.
	// Returns *Error after exhausting retries.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// Name returns the client identifier (e.g. "openrouter").
	Name() string
}

// Error reports a backend call that failed after all retry attempts.
type Error struct {
	Provider string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d attempts exhausted: %v", e.Provider, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config holds settings shared by the concrete client implementations.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration

	MaxRetries int           // attempts including the first (default 4)
	RetryDelay time.Duration // base backoff delay (default 1s)
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 4
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
}

// Verify interface conformance of all implementations in this package.
var (
	_ Client = (*OpenRouterClient)(nil)
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*MockClient)(nil)
)
