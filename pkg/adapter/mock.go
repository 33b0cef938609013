package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockAdapter returns deterministic responses for local runs and tests.
// Responses are matched by substring against the last message or the
// system prompt, so tests can script different outputs for different
// pipeline stages. Safe for concurrent use.
type MockAdapter struct {
	mu              sync.Mutex
	responses       map[string]string
	defaultResponse string
	Err             error
	Calls           int
	Usage           *Usage
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		defaultResponse: "mock response",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with predefined
// responses keyed by a substring of the prompt.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response"
	}
	return &MockAdapter{responses: responses, defaultResponse: defaultResponse}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Complete returns a deterministic response for the request.
func (a *MockAdapter) Complete(_ context.Context, model string, req Request) (*Response, error) {
	a.mu.Lock()
	a.Calls++
	err := a.Err
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "mock-1"
	}

	var last string
	if len(req.Messages) > 0 {
		last = req.Messages[len(req.Messages)-1].Content
	}
	for key, response := range a.responses {
		if strings.Contains(last, key) || strings.Contains(req.System, key) {
			return &Response{Content: response, Usage: a.Usage}, nil
		}
	}

	content := fmt.Sprintf("%s: %s", a.defaultResponse, last)
	return &Response{Content: content, Usage: a.Usage}, nil
}
