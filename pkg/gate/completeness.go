package gate

import "github.com/frontdesk-lu/frontdesk/pkg/schema"

// CompletenessGate checks that a response carries every required field:
// language, answer, steps, citations, confidence, limitations and
// suggested searches.
type CompletenessGate struct{}

// NewCompletenessGate creates a completeness gate.
func NewCompletenessGate() *CompletenessGate {
	return &CompletenessGate{}
}

// Name returns the gate identifier.
func (g *CompletenessGate) Name() string {
	return "completeness"
}

// Evaluate checks the response's required fields.
func (g *CompletenessGate) Evaluate(resp *schema.Response) *Result {
	if err := resp.Validate(); err != nil {
		return NewFailingResult([]Violation{{
			Rule:     "required-fields",
			Severity: "error",
			Message:  err.Error(),
		}})
	}
	return NewPassingResult()
}
