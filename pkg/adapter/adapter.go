// Package adapter provides completion-service adapters for the LLM
// providers the pipeline can run against.
package adapter

import "context"

// Adapter defines the interface for completion-service providers.
type Adapter interface {
	// Complete sends a chat request to the model and returns its output.
	// When req.JSONMode is set the provider is asked for syntactically
	// valid JSON; callers must still treat any deviation as a
	// recoverable failure.
	Complete(ctx context.Context, model string, req Request) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}
