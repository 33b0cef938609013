// Package agents implements the domain specialist responders. Each
// responder answers a question using only the evidence it is given and
// reports its own confidence and limitations.
package agents

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

// Responder is a domain specialist. Respond never returns an error:
// failures degrade to a low-confidence answer so one broken specialist
// cannot take down the whole pipeline.
type Responder interface {
	Agent() schema.Agent
	Respond(ctx context.Context, question string, lang schema.Language, evidence []schema.Evidence) *schema.SpecialistAnswer
}

// FallbackAnswer is the answer text used when a specialist cannot
// produce a real answer.
const FallbackAnswer = "Unable to process this question right now. Please try again later."

type specialist struct {
	agent   schema.Agent
	adapter adapter.Adapter
	model   string
	system  string
	logger  *slog.Logger
	post    func(*schema.SpecialistAnswer)
}

// Option configures a specialist responder.
type Option func(*specialist)

// WithLogger sets the responder's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *specialist) { s.logger = logger }
}

func newSpecialist(agent schema.Agent, a adapter.Adapter, model, system string, post func(*schema.SpecialistAnswer), opts ...Option) *specialist {
	s := &specialist{
		agent:   agent,
		adapter: a,
		model:   model,
		system:  system,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		post:    post,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *specialist) Agent() schema.Agent { return s.agent }

func (s *specialist) Respond(ctx context.Context, question string, lang schema.Language, evidence []schema.Evidence) *schema.SpecialistAnswer {
	req := adapter.Request{
		System:   s.system,
		Messages: []adapter.Message{{Role: adapter.RoleUser, Content: buildPrompt(question, lang, evidence)}},
		JSONMode: true,
	}

	resp, err := s.adapter.Complete(ctx, s.model, req)
	if err != nil {
		s.logger.Warn("specialist call failed", "agent", s.agent, "error", err)
		return s.fallback(evidence)
	}

	answer, err := parseAnswer(resp.Content)
	if err != nil {
		s.logger.Warn("specialist output unusable", "agent", s.agent, "error", err)
		return s.fallback(evidence)
	}

	answer.Agent = s.agent
	answer.Evidence = evidence
	if s.post != nil {
		s.post(answer)
	}
	return answer
}

func (s *specialist) fallback(evidence []schema.Evidence) *schema.SpecialistAnswer {
	answer := &schema.SpecialistAnswer{
		Agent:             s.agent,
		Answer:            FallbackAnswer,
		Steps:             []string{},
		Evidence:          evidence,
		Confidence:        schema.ConfidenceLow,
		Limitations:       []string{"The specialist could not be reached or returned an unusable answer."},
		SuggestedSearches: []string{},
	}
	if s.post != nil {
		s.post(answer)
	}
	return answer
}

func buildPrompt(question string, lang schema.Language, evidence []schema.Evidence) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Answer in language %q.\n\n", lang))
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\n")

	if len(evidence) == 0 {
		b.WriteString("No retrieved evidence is available. Say so, keep your confidence low, and suggest searches the user could run.\n")
	} else {
		b.WriteString("Retrieved evidence (use only this, do not invent sources):\n\n")
		for i, ev := range evidence {
			b.WriteString(fmt.Sprintf("[%d] %s — %s (%s)\n%s\n\n", i+1, ev.Title, ev.Section, ev.URL, ev.Snippet))
		}
	}

	b.WriteString(`Respond with a single JSON object:
{"answer": "...", "steps": ["..."], "confidence": "low|medium|high", "limitations": ["..."], "suggested_searches": ["..."]}`)

	return b.String()
}

type rawAnswer struct {
	Answer            string   `json:"answer"`
	Steps             []string `json:"steps"`
	Confidence        string   `json:"confidence"`
	Limitations       []string `json:"limitations"`
	SuggestedSearches []string `json:"suggested_searches"`
}

func parseAnswer(content string) (*schema.SpecialistAnswer, error) {
	cleaned := stripFences(content)

	var raw rawAnswer
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling answer: %w", err)
	}
	if strings.TrimSpace(raw.Answer) == "" {
		return nil, fmt.Errorf("answer field is empty")
	}

	answer := &schema.SpecialistAnswer{
		Answer:            raw.Answer,
		Steps:             raw.Steps,
		Confidence:        schema.ParseConfidence(raw.Confidence),
		Limitations:       raw.Limitations,
		SuggestedSearches: raw.SuggestedSearches,
	}
	if answer.Steps == nil {
		answer.Steps = []string{}
	}
	if answer.Limitations == nil {
		answer.Limitations = []string{}
	}
	if answer.SuggestedSearches == nil {
		answer.SuggestedSearches = []string{}
	}
	return answer, nil
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
