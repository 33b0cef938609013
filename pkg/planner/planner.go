// Package planner turns a user question into a retrieval and routing
// plan: detected language, intent classification, the queries to run,
// and which specialist agents to call.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/frontdesk-lu/frontdesk/pkg/adapter"
	"github.com/frontdesk-lu/frontdesk/pkg/repair"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

const systemPrompt = `You are the planning stage of a question-answering service for employment and administrative questions in Luxembourg.

Given a user question (and optionally prior conversation turns), produce a plan:

- "language": the language of the question, one of "en", "fr", "de".
- "intent": "procedural" if the question asks how to do something with an administration (register, apply, file, deadlines at counters), "legal" if it asks what the law says (rights, obligations, Labour Code), "mixed" if both.
- "confidence": your confidence in the classification, a number between 0 and 1.
- "reasoning": one sentence explaining the classification.
- "retrieval_queries": 1 to 4 short search queries that would find the pages needed to answer. Write them in the question's language.
- "agents_to_call": which specialists should answer, from "guichet" (administrative procedure) and "legal" (labour law). Use both for mixed questions.

Respond with a single JSON object:
{"language": "...", "intent": "...", "confidence": 0.0, "reasoning": "...", "retrieval_queries": ["..."], "agents_to_call": ["..."]}`

const planSchemaHint = `{"language": "en|fr|de", "intent": "procedural|legal|mixed", "confidence": 0.0-1.0, "reasoning": "string", "retrieval_queries": ["string"], "agents_to_call": ["guichet"|"legal"]}`

// maxHistoryTurns bounds how much conversation context is replayed to
// the model.
const maxHistoryTurns = 10

// Planner produces a schema.Plan for each incoming question. It never
// returns an error: any adapter or parse failure degrades to a fixed
// fallback plan that routes the question to both agents.
type Planner struct {
	adapter adapter.Adapter
	model   string
	repair  bool
	logger  *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithRepair enables one follow-up reprompt when the model's output
// fails to parse as JSON.
func WithRepair(enabled bool) Option {
	return func(p *Planner) { p.repair = enabled }
}

// WithLogger sets the planner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// New creates a Planner backed by the given adapter and model.
func New(a adapter.Adapter, model string, opts ...Option) *Planner {
	p := &Planner{
		adapter: a,
		model:   model,
		repair:  true,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FallbackPlan is the deterministic plan used when planning fails. It
// routes the question, verbatim, to both agents.
func FallbackPlan(question string) *schema.Plan {
	return &schema.Plan{
		Language:         schema.LangEnglish,
		Intent:           schema.IntentMixed,
		Confidence:       0.5,
		Reasoning:        "planner unavailable, routing to all agents",
		RetrievalQueries: []string{question},
		Agents:           append([]schema.Agent(nil), schema.AllAgents...),
	}
}

// Plan classifies the question and decides retrieval queries and agent
// routing. On any failure it returns FallbackPlan(question).
func (p *Planner) Plan(ctx context.Context, question string, history []schema.Turn) *schema.Plan {
	req := p.buildRequest(question, history)

	resp, err := p.adapter.Complete(ctx, p.model, req)
	if err != nil {
		p.logger.Warn("planner call failed, using fallback plan", "error", err)
		return FallbackPlan(question)
	}

	plan, parseErr := p.parsePlan(resp.Content, question)
	if parseErr == nil {
		return plan
	}

	if p.repair {
		if repaired := p.tryRepair(ctx, req, resp.Content, parseErr, question); repaired != nil {
			return repaired
		}
	}

	p.logger.Warn("planner output unusable, using fallback plan", "error", parseErr)
	return FallbackPlan(question)
}

func (p *Planner) buildRequest(question string, history []schema.Turn) adapter.Request {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := make([]adapter.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, adapter.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, adapter.Message{Role: adapter.RoleUser, Content: question})

	return adapter.Request{
		System:   systemPrompt,
		Messages: messages,
		JSONMode: true,
	}
}

// tryRepair sends one reprompt asking the model to fix its malformed
// output. Returns nil if the repair attempt also fails.
func (p *Planner) tryRepair(ctx context.Context, orig adapter.Request, raw string, parseErr error, question string) *schema.Plan {
	p.logger.Debug("planner output malformed, attempting repair", "error", parseErr)

	messages := append(append([]adapter.Message(nil), orig.Messages...),
		adapter.Message{Role: adapter.RoleAssistant, Content: raw},
		adapter.Message{Role: adapter.RoleUser, Content: repair.JSONPrompt(raw, parseErr, planSchemaHint)},
	)
	req := adapter.Request{System: orig.System, Messages: messages, JSONMode: true}

	resp, err := p.adapter.Complete(ctx, p.model, req)
	if err != nil {
		p.logger.Warn("planner repair call failed", "error", err)
		return nil
	}

	plan, err := p.parsePlan(resp.Content, question)
	if err != nil {
		p.logger.Warn("planner repair output still unusable", "error", err)
		return nil
	}
	return plan
}

type rawPlan struct {
	Language         string   `json:"language"`
	Intent           string   `json:"intent"`
	Confidence       float64  `json:"confidence"`
	Reasoning        string   `json:"reasoning"`
	RetrievalQueries []string `json:"retrieval_queries"`
	Agents           []string `json:"agents_to_call"`
}

func (p *Planner) parsePlan(content, question string) (*schema.Plan, error) {
	cleaned := stripFences(content)

	var raw rawPlan
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling plan: %w", err)
	}

	lang, ok := schema.ParseLanguage(raw.Language)
	if !ok {
		return nil, fmt.Errorf("plan language: unknown value %q", raw.Language)
	}
	intent, ok := schema.ParseIntent(raw.Intent)
	if !ok {
		return nil, fmt.Errorf("plan intent: unknown value %q", raw.Intent)
	}

	confidence := raw.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	queries := make([]string, 0, len(raw.RetrievalQueries))
	for _, q := range raw.RetrievalQueries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		queries = []string{question}
	}

	agents := make([]schema.Agent, 0, len(raw.Agents))
	for _, a := range raw.Agents {
		parsed, ok := schema.ParseAgent(a)
		if !ok {
			return nil, fmt.Errorf("plan agent: unknown value %q", a)
		}
		if !containsAgent(agents, parsed) {
			agents = append(agents, parsed)
		}
	}
	if len(agents) == 0 {
		agents = append([]schema.Agent(nil), schema.AllAgents...)
	}

	return &schema.Plan{
		Language:         lang,
		Intent:           intent,
		Confidence:       confidence,
		Reasoning:        raw.Reasoning,
		RetrievalQueries: queries,
		Agents:           agents,
	}, nil
}

func containsAgent(agents []schema.Agent, a schema.Agent) bool {
	for _, existing := range agents {
		if existing == a {
			return true
		}
	}
	return false
}

// stripFences removes a surrounding markdown code fence, which models
// sometimes add despite instructions.
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
