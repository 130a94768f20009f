package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIClient implements Client on top of the official OpenAI SDK.
// Useful when the backend is api.openai.com itself or an Azure-style
// deployment that the SDK knows how to talk to.
type OpenAIClient struct {
	client       openai.Client
	defaultModel string
	policy       RetryPolicy
	logger       *slog.Logger
}

// NewOpenAIClient creates a new OpenAI SDK-backed client.
func NewOpenAIClient(cfg Config, logger *slog.Logger) *OpenAIClient {
	cfg.applyDefaults()
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = openAIDefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		// Retries are handled by the shared RetryPolicy so attempt
		// logging and backoff match the HTTP client.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		defaultModel: cfg.DefaultModel,
		policy: RetryPolicy{
			Attempts:  uint(cfg.MaxRetries),
			BaseDelay: cfg.RetryDelay,
			Logger:    logger,
		},
		logger: logger,
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string { return OpenAIName }

// Complete sends a chat completion request and returns the completion text.
func (c *OpenAIClient) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.SystemPrompt),
	}
	if req.UserPrompt != "" {
		messages = append(messages, openai.UserMessage(req.UserPrompt))
	}

	params := openai.ChatCompletionNewParams{
		Model:     shared.ChatModel(c.defaultModel),
		Messages:  messages,
		MaxTokens: openai.Int(int64(ClampTokens(req.MaxTokens))),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.ResponseFormat == FormatJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	var (
		content string
		attempt int
	)
	retryErr := c.policy.Do(ctx, "chat_completion", func() error {
		attempt++
		started := time.Now()
		resp, err := c.client.Chat.Completions.New(ctx, params)
		c.logger.Debug("completion attempt",
			"request_id", requestID,
			"attempt", attempt,
			"latency", time.Since(started),
			"ok", err == nil,
		)
		if err != nil {
			return fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if retryErr != nil {
		return "", &Error{Provider: OpenAIName, Attempts: attempt, Err: retryErr}
	}
	return content, nil
}
