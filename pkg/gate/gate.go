// Package gate implements quality gates over assembled responses.
// Gates observe and report; they never block a response from being
// returned.
package gate

import "github.com/frontdesk-lu/frontdesk/pkg/schema"

// Gate checks one quality dimension of an assembled response.
type Gate interface {
	// Evaluate checks the response and reports any violations.
	Evaluate(resp *schema.Response) *Result

	// Name returns the gate identifier.
	Name() string
}

// Result contains the outcome of one gate evaluation.
type Result struct {
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation describes a specific quality issue.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
}

// NewPassingResult creates a result indicating the gate passed.
func NewPassingResult() *Result {
	return &Result{Passed: true}
}

// NewFailingResult creates a result carrying the given violations.
func NewFailingResult(violations []Violation) *Result {
	return &Result{Passed: false, Violations: violations}
}

// EvaluateAll runs every gate and collects the failing results.
func EvaluateAll(gates []Gate, resp *schema.Response) map[string]*Result {
	failed := make(map[string]*Result)
	for _, g := range gates {
		if result := g.Evaluate(resp); !result.Passed {
			failed[g.Name()] = result
		}
	}
	return failed
}
