package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	OpenRouterName    = "openrouter"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenRouterClient implements Client against any OpenAI-compatible
// chat-completion endpoint over plain HTTP.
type OpenRouterClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	client       *http.Client
	policy       RetryPolicy
	logger       *slog.Logger
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg Config, logger *slog.Logger) *OpenRouterClient {
	cfg.applyDefaults()
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "anthropic/claude-3.5-sonnet"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenRouterClient{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		// Client timeout bounds each attempt so one stalled call cannot
		// hang the whole pipeline run.
		client: &http.Client{Timeout: cfg.Timeout},
		policy: RetryPolicy{
			Attempts:  uint(cfg.MaxRetries),
			BaseDelay: cfg.RetryDelay,
			Logger:    logger,
		},
		logger: logger,
	}
}

// Name returns the client identifier.
func (c *OpenRouterClient) Name() string { return OpenRouterName }

// Complete sends a chat completion request and returns the completion text.
func (c *OpenRouterClient) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	messages := []chatMessage{{Role: "system", Content: req.SystemPrompt}}
	if req.UserPrompt != "" {
		messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})
	}

	body := chatRequest{
		Model:       c.defaultModel,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   ClampTokens(req.MaxTokens),
	}
	if req.ResponseFormat == FormatJSON {
		body.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &Error{Provider: OpenRouterName, Attempts: 0, Err: fmt.Errorf("marshal request: %w", err)}
	}

	var (
		content string
		attempt int
	)
	retryErr := c.policy.Do(ctx, "chat_completion", func() error {
		attempt++
		started := time.Now()
		text, err := c.attempt(ctx, payload)
		c.logger.Debug("completion attempt",
			"request_id", requestID,
			"attempt", attempt,
			"latency", time.Since(started),
			"ok", err == nil,
		)
		if err != nil {
			return err
		}
		content = text
		return nil
	})
	if retryErr != nil {
		return "", &Error{Provider: OpenRouterName, Attempts: attempt, Err: retryErr}
	}
	return content, nil
}

// attempt performs a single HTTP round trip. Any transport error, non-2xx
// status, or malformed body is returned as a retryable error.
func (c *OpenRouterClient) attempt(ctx context.Context, payload []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", Unrecoverable(fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Title", "Tome")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend error (status %d): %s", resp.StatusCode, truncate(string(respBody), 512))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[truncated]"
}

// OpenAI-compatible wire types.

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
