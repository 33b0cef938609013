// Package assemble builds the final response: citations grouped from
// evidence, conflict warnings folded into limitations, and quality
// gates evaluated over the result.
package assemble

import (
	"io"
	"log/slog"

	"github.com/frontdesk-lu/frontdesk/pkg/gate"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
	"github.com/frontdesk-lu/frontdesk/pkg/synthesis"
)

// Assembler builds and quality-checks the final response. Gate
// violations are logged, never raised: a flawed answer with its flaws
// on record beats no answer.
type Assembler struct {
	gates  []gate.Gate
	logger *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithGates adds quality gates on top of the default set.
func WithGates(gates ...gate.Gate) Option {
	return func(a *Assembler) { a.gates = append(a.gates, gates...) }
}

// WithLogger sets the assembler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) { a.logger = logger }
}

// New creates an Assembler. The completeness and citation-integrity
// gates are always installed; WithGates adds domain-specific ones.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		gates: []gate.Gate{
			gate.NewCompletenessGate(),
			gate.NewCitationIntegrityGate(),
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the final response from the synthesized answer, the
// full evidence bundle and any detected conflicts.
func (a *Assembler) Assemble(plan *schema.Plan, evidence []schema.Evidence, synth *synthesis.Result, conflicts []string) *schema.Response {
	limitations := append(append([]string{}, synth.Limitations...), conflicts...)

	confidence := synth.Confidence
	if len(evidence) == 0 {
		// An answer nothing was retrieved for cannot be trusted,
		// whatever the synthesizer thought of it.
		confidence = schema.ConfidenceLow
	}

	resp := &schema.Response{
		Language:          plan.Language,
		Answer:            synth.Answer,
		Steps:             copyOrEmpty(synth.Steps),
		Citations:         BuildCitations(evidence),
		Confidence:        confidence,
		Limitations:       limitations,
		SuggestedSearches: copyOrEmpty(synth.SuggestedSearches),
		Evidence:          evidence,
	}

	for name, result := range gate.EvaluateAll(a.gates, resp) {
		for _, v := range result.Violations {
			a.logger.Warn("gate violation", "gate", name, "rule", v.Rule, "severity", v.Severity, "message", v.Message)
		}
	}

	return resp
}

// BuildCitations groups evidence by (url, section) in first-seen order.
// Each citation lists every evidence id retrieved from that location.
func BuildCitations(evidence []schema.Evidence) []schema.Citation {
	type locKey struct{ url, section string }

	citations := []schema.Citation{}
	index := make(map[locKey]int)
	for _, ev := range evidence {
		key := locKey{ev.URL, ev.Section}
		if i, seen := index[key]; seen {
			citations[i].EvidenceIDs = append(citations[i].EvidenceIDs, ev.ID)
			continue
		}
		index[key] = len(citations)
		citations = append(citations, schema.Citation{
			Title:       ev.Title,
			URL:         ev.URL,
			Section:     ev.Section,
			RetrievedAt: ev.RetrievedAt,
			EvidenceIDs: []string{ev.ID},
		})
	}
	return citations
}

func copyOrEmpty(s []string) []string {
	if len(s) == 0 {
		return []string{}
	}
	return append([]string(nil), s...)
}
