// Package synthesis merges specialist answers into a single coherent
// answer. A lone answer passes through untouched; multiple answers are
// merged by a model, with deterministic concatenation as the fallback.
package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/frontdesk-lu/frontdesk/pkg/adapter"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

const synthSystem = `You merge answers from several domain specialists into one coherent answer for the user.

You receive the original question and each specialist's answer (administrative procedure first, then legal context). Merge them:

- Keep every distinct point; drop exact duplicates.
- Present procedural guidance first, then the legal context that applies to it.
- Merge the step lists into one ordered list of actions.
- Keep every limitation and every suggested search from the inputs.
- Set "confidence" no higher than the least confident input.

Respond with a single JSON object:
{"answer": "...", "steps": ["..."], "confidence": "low|medium|high", "limitations": ["..."], "suggested_searches": ["..."]}`

// NoInformationAnswer is returned when no specialist produced an answer.
const NoInformationAnswer = "No information was found to answer this question."

// Result is the synthesizer's merged view over the specialist answers.
// Citations and evidence are the assembler's job, not the synthesizer's.
type Result struct {
	Answer            string
	Steps             []string
	Confidence        schema.Confidence
	Limitations       []string
	SuggestedSearches []string
}

// Synthesizer merges specialist answers. It never returns an error.
type Synthesizer struct {
	adapter adapter.Adapter
	model   string
	logger  *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the synthesizer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) { s.logger = logger }
}

// New creates a Synthesizer backed by the given adapter and model.
func New(a adapter.Adapter, model string, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		adapter: a,
		model:   model,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize merges the specialist answers for one question. Answers
// are processed in canonical agent order regardless of input order.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, lang schema.Language, answers []*schema.SpecialistAnswer) *Result {
	ordered := orderAnswers(answers)

	switch len(ordered) {
	case 0:
		return &Result{
			Answer:            NoInformationAnswer,
			Steps:             []string{},
			Confidence:        schema.ConfidenceLow,
			Limitations:       []string{"No specialist was able to answer."},
			SuggestedSearches: []string{},
		}
	case 1:
		// A single answer needs no merging and no model call.
		a := ordered[0]
		return &Result{
			Answer:            a.Answer,
			Steps:             copyOrEmpty(a.Steps),
			Confidence:        a.Confidence,
			Limitations:       copyOrEmpty(a.Limitations),
			SuggestedSearches: copyOrEmpty(a.SuggestedSearches),
		}
	}

	req := adapter.Request{
		System:   synthSystem,
		Messages: []adapter.Message{{Role: adapter.RoleUser, Content: buildMergePrompt(question, lang, ordered)}},
		JSONMode: true,
	}

	resp, err := s.adapter.Complete(ctx, s.model, req)
	if err != nil {
		s.logger.Warn("synthesis call failed, concatenating answers", "error", err)
		return concatenate(ordered)
	}

	result, err := parseResult(resp.Content)
	if err != nil {
		s.logger.Warn("synthesis output unusable, concatenating answers", "error", err)
		return concatenate(ordered)
	}
	return result
}

// orderAnswers drops nil entries and sorts by canonical agent order so
// procedural guidance always precedes legal context in the merge.
func orderAnswers(answers []*schema.SpecialistAnswer) []*schema.SpecialistAnswer {
	var ordered []*schema.SpecialistAnswer
	for _, agent := range schema.AllAgents {
		for _, a := range answers {
			if a != nil && a.Agent == agent {
				ordered = append(ordered, a)
			}
		}
	}
	// Answers from unknown agents still participate, after the known ones.
	for _, a := range answers {
		if a == nil {
			continue
		}
		if _, known := schema.ParseAgent(string(a.Agent)); !known {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

func buildMergePrompt(question string, lang schema.Language, answers []*schema.SpecialistAnswer) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Answer in language %q.\n\n", lang))
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\n")

	for _, a := range answers {
		payload, err := json.MarshalIndent(struct {
			Answer            string   `json:"answer"`
			Steps             []string `json:"steps"`
			Confidence        string   `json:"confidence"`
			Limitations       []string `json:"limitations"`
			SuggestedSearches []string `json:"suggested_searches"`
		}{a.Answer, a.Steps, string(a.Confidence), a.Limitations, a.SuggestedSearches}, "", "  ")
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf("Specialist %q:\n%s\n\n", a.Agent, payload))
	}

	return b.String()
}

// concatenate is the deterministic merge used when the model cannot.
// Nothing is deduplicated; losing a point would be worse than repeating one.
func concatenate(answers []*schema.SpecialistAnswer) *Result {
	result := &Result{
		Confidence:        schema.ConfidenceMedium,
		Steps:             []string{},
		Limitations:       []string{},
		SuggestedSearches: []string{},
	}

	var parts []string
	for _, a := range answers {
		parts = append(parts, a.Answer)
		result.Steps = append(result.Steps, a.Steps...)
		result.Limitations = append(result.Limitations, a.Limitations...)
		result.SuggestedSearches = append(result.SuggestedSearches, a.SuggestedSearches...)
	}
	result.Answer = strings.Join(parts, "\n\n")
	return result
}

type rawResult struct {
	Answer            string   `json:"answer"`
	Steps             []string `json:"steps"`
	Confidence        string   `json:"confidence"`
	Limitations       []string `json:"limitations"`
	SuggestedSearches []string `json:"suggested_searches"`
}

func parseResult(content string) (*Result, error) {
	cleaned := stripFences(content)

	var raw rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling synthesis: %w", err)
	}
	if strings.TrimSpace(raw.Answer) == "" {
		return nil, fmt.Errorf("answer field is empty")
	}

	return &Result{
		Answer:            raw.Answer,
		Steps:             copyOrEmpty(raw.Steps),
		Confidence:        schema.ParseConfidence(raw.Confidence),
		Limitations:       copyOrEmpty(raw.Limitations),
		SuggestedSearches: copyOrEmpty(raw.SuggestedSearches),
	}, nil
}

func copyOrEmpty(s []string) []string {
	if len(s) == 0 {
		return []string{}
	}
	return append([]string(nil), s...)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
