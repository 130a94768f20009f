package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chatOK(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id":    "test-id",
			"model": "test-model",
			"choices": []map[string]any{
				{
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func newTestClient(url string, retries int) *OpenRouterClient {
	return NewOpenRouterClient(Config{
		APIKey:     "test-key",
		BaseURL:    url,
		MaxRetries: retries,
		RetryDelay: time.Millisecond,
	}, nil)
}

func TestOpenRouterClient_Complete(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		var gotReq chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}
			json.NewDecoder(r.Body).Decode(&gotReq)
			chatOK("Chapter prose.")(w, r)
		}))
		defer server.Close()

		client := newTestClient(server.URL, 3)
		got, err := client.Complete(context.Background(), &CompletionRequest{
			SystemPrompt:   "You write books.",
			UserPrompt:     "Write chapter 1.",
			MaxTokens:      500,
			Temperature:    0.2,
			ResponseFormat: FormatText,
		})
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != "Chapter prose." {
			t.Errorf("content = %q", got)
		}
		if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", gotReq.Messages)
		}
		if gotReq.ResponseFormat != nil {
			t.Errorf("unexpected response_format for text request: %+v", gotReq.ResponseFormat)
		}
	})

	t.Run("json format hint", func(t *testing.T) {
		var gotReq chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotReq)
			chatOK(`[{"title":"Intro","pages":2}]`)(w, r)
		}))
		defer server.Close()

		client := newTestClient(server.URL, 3)
		if _, err := client.Complete(context.Background(), &CompletionRequest{
			SystemPrompt:   "system",
			ResponseFormat: FormatJSON,
		}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format = %+v, want json_object", gotReq.ResponseFormat)
		}
	})

	t.Run("token budget clamped", func(t *testing.T) {
		var gotReq chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotReq)
			chatOK("ok")(w, r)
		}))
		defer server.Close()

		client := newTestClient(server.URL, 3)
		if _, err := client.Complete(context.Background(), &CompletionRequest{
			SystemPrompt: "system",
			MaxTokens:    50000,
		}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if gotReq.MaxTokens != MaxCompletionTokens {
			t.Errorf("max_tokens = %d, want %d", gotReq.MaxTokens, MaxCompletionTokens)
		}
	})

	t.Run("retries transient failure then succeeds", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			chatOK("recovered")(w, r)
		}))
		defer server.Close()

		client := newTestClient(server.URL, 4)
		got, err := client.Complete(context.Background(), &CompletionRequest{SystemPrompt: "system"})
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != "recovered" {
			t.Errorf("content = %q", got)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("exhausted retries return backend error", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := newTestClient(server.URL, 3)
		_, err := client.Complete(context.Background(), &CompletionRequest{SystemPrompt: "system"})
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		var be *Error
		if !errors.As(err, &be) {
			t.Fatalf("error type = %T, want *backend.Error", err)
		}
		if be.Attempts != 3 {
			t.Errorf("attempts = %d, want 3", be.Attempts)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("malformed body is retried", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.Write([]byte("not json at all"))
				return
			}
			chatOK("fine")(w, r)
		}))
		defer server.Close()

		client := newTestClient(server.URL, 3)
		got, err := client.Complete(context.Background(), &CompletionRequest{SystemPrompt: "system"})
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != "fine" {
			t.Errorf("content = %q", got)
		}
	})
}

func TestClampTokens(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, MinCompletionTokens},
		{0, MinCompletionTokens},
		{1, 1},
		{400, 400},
		{8000, 8000},
		{8001, MaxCompletionTokens},
	}
	for _, tt := range tests {
		if got := ClampTokens(tt.in); got != tt.want {
			t.Errorf("ClampTokens(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
