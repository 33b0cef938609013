package gate

import (
	"fmt"

	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

// CitationIntegrityGate checks referential integrity between citations
// and the evidence bundle: every evidence id a citation references must
// exist, and no citation may be empty.
type CitationIntegrityGate struct{}

// NewCitationIntegrityGate creates a citation integrity gate.
func NewCitationIntegrityGate() *CitationIntegrityGate {
	return &CitationIntegrityGate{}
}

// Name returns the gate identifier.
func (g *CitationIntegrityGate) Name() string {
	return "citation-integrity"
}

// Evaluate cross-checks citations against the evidence bundle.
func (g *CitationIntegrityGate) Evaluate(resp *schema.Response) *Result {
	known := make(map[string]bool, len(resp.Evidence))
	for _, ev := range resp.Evidence {
		known[ev.ID] = true
	}

	var violations []Violation
	for i, c := range resp.Citations {
		if len(c.EvidenceIDs) == 0 {
			violations = append(violations, Violation{
				Rule:     "citation-has-evidence",
				Severity: "error",
				Message:  fmt.Sprintf("citation %d (%s) references no evidence", i, c.URL),
			})
		}
		for _, id := range c.EvidenceIDs {
			if !known[id] {
				violations = append(violations, Violation{
					Rule:     "evidence-id-exists",
					Severity: "error",
					Message:  fmt.Sprintf("citation %d references unknown evidence id %q", i, id),
				})
			}
		}
	}

	if len(violations) > 0 {
		return NewFailingResult(violations)
	}
	return NewPassingResult()
}
