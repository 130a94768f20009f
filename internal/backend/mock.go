package backend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a scriptable Client for testing. Responses are returned in
// order; the last one repeats once the script is exhausted. FailAfter and
// ShouldFail simulate backend failures that survived the retry budget.
type MockClient struct {
	Latency    time.Duration
	ShouldFail bool
	FailAfter  int // fail once more than N requests have been made (0 = never)

	mu        sync.Mutex
	responses []string

	requestCount atomic.Int64
	lastRequest  atomic.Pointer[CompletionRequest]
}

// NewMockClient creates a mock that answers every request with the given
// responses, in order.
func NewMockClient(responses ...string) *MockClient {
	if len(responses) == 0 {
		responses = []string{"mock response"}
	}
	return &MockClient{responses: responses}
}

// Name returns the client identifier.
func (c *MockClient) Name() string { return MockClientName }

// Complete returns the next scripted response.
func (c *MockClient) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	count := c.requestCount.Add(1)
	reqCopy := *req
	c.lastRequest.Store(&reqCopy)

	if c.ShouldFail {
		return "", &Error{Provider: MockClientName, Attempts: 1, Err: fmt.Errorf("mock client configured to fail")}
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return "", &Error{Provider: MockClientName, Attempts: 1, Err: fmt.Errorf("mock client failed after %d requests", c.FailAfter)}
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx := int(count) - 1
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	return c.responses[idx], nil
}

// Enqueue appends further scripted responses.
func (c *MockClient) Enqueue(responses ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, responses...)
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns a copy of the most recent request, or nil.
func (c *MockClient) LastRequest() *CompletionRequest {
	return c.lastRequest.Load()
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
}
