package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/frontdesk-lu/frontdesk/pkg/adapter"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

const goodPlanJSON = `{
	"language": "fr",
	"intent": "procedural",
	"confidence": 0.9,
	"reasoning": "asks how to register with ADEM",
	"retrieval_queries": ["inscription ADEM demandeur emploi"],
	"agents_to_call": ["guichet"]
}`

func TestPlanParsesModelOutput(t *testing.T) {
	mock := adapter.NewMockAdapterWithResponses(map[string]string{
		"ADEM": goodPlanJSON,
	}, "")
	p := New(mock, "mock-1")

	plan := p.Plan(context.Background(), "Comment s'inscrire a l'ADEM ?", nil)

	if plan.Language != schema.LangFrench {
		t.Errorf("language = %q, want fr", plan.Language)
	}
	if plan.Intent != schema.IntentProcedural {
		t.Errorf("intent = %q, want procedural", plan.Intent)
	}
	if plan.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", plan.Confidence)
	}
	if len(plan.RetrievalQueries) != 1 || plan.RetrievalQueries[0] != "inscription ADEM demandeur emploi" {
		t.Errorf("unexpected queries: %v", plan.RetrievalQueries)
	}
	if len(plan.Agents) != 1 || plan.Agents[0] != schema.AgentGuichet {
		t.Errorf("unexpected agents: %v", plan.Agents)
	}
}

func TestPlanStripsMarkdownFences(t *testing.T) {
	mock := adapter.NewMockAdapterWithResponses(map[string]string{
		"notice period": "```json\n" + `{"language": "en", "intent": "legal", "confidence": 0.8, "reasoning": "labour code", "retrieval_queries": ["notice period labour code"], "agents_to_call": ["legal"]}` + "\n```",
	}, "")
	p := New(mock, "mock-1")

	plan := p.Plan(context.Background(), "What is the notice period?", nil)

	if plan.Intent != schema.IntentLegal {
		t.Errorf("intent = %q, want legal", plan.Intent)
	}
	if len(plan.Agents) != 1 || plan.Agents[0] != schema.AgentLegal {
		t.Errorf("unexpected agents: %v", plan.Agents)
	}
}

func TestPlanFallbackOnAdapterError(t *testing.T) {
	mock := adapter.NewMockAdapter()
	mock.Err = errors.New("connection refused")
	p := New(mock, "mock-1")

	question := "Can my employer fire me during sick leave?"
	plan := p.Plan(context.Background(), question, nil)

	if plan.Language != schema.LangEnglish {
		t.Errorf("fallback language = %q, want en", plan.Language)
	}
	if plan.Intent != schema.IntentMixed {
		t.Errorf("fallback intent = %q, want mixed", plan.Intent)
	}
	if plan.Confidence != 0.5 {
		t.Errorf("fallback confidence = %v, want 0.5", plan.Confidence)
	}
	if len(plan.RetrievalQueries) != 1 || plan.RetrievalQueries[0] != question {
		t.Errorf("fallback queries = %v, want [question]", plan.RetrievalQueries)
	}
	if len(plan.Agents) != 2 || plan.Agents[0] != schema.AgentGuichet || plan.Agents[1] != schema.AgentLegal {
		t.Errorf("fallback agents = %v, want both", plan.Agents)
	}
}

func TestPlanFallbackOnMalformedOutput(t *testing.T) {
	// Default mock output is plain text, which fails to parse. With
	// repair disabled the planner goes straight to the fallback plan.
	mock := adapter.NewMockAdapter()
	p := New(mock, "mock-1", WithRepair(false))

	plan := p.Plan(context.Background(), "some question", nil)

	if plan.Intent != schema.IntentMixed || plan.Confidence != 0.5 {
		t.Errorf("expected fallback plan, got %+v", plan)
	}
	if mock.Calls != 1 {
		t.Errorf("calls = %d, want 1 (no repair attempt)", mock.Calls)
	}
}

func TestPlanRepairRecoversMalformedOutput(t *testing.T) {
	// First call returns broken JSON; the repair reprompt (recognized
	// by its fixed preamble) returns a valid plan.
	mock := adapter.NewMockAdapterWithResponses(map[string]string{
		"could not be parsed": `{"language": "de", "intent": "legal", "confidence": 0.7, "reasoning": "ok", "retrieval_queries": ["Kuendigungsfrist"], "agents_to_call": ["legal"]}`,
	}, "{broken")
	p := New(mock, "mock-1")

	plan := p.Plan(context.Background(), "Wie lang ist die Kuendigungsfrist?", nil)

	if plan.Language != schema.LangGerman {
		t.Errorf("language = %q, want de (repaired plan)", plan.Language)
	}
	if mock.Calls != 2 {
		t.Errorf("calls = %d, want 2 (original + repair)", mock.Calls)
	}
}

func TestPlanRepairFailureFallsBack(t *testing.T) {
	// Both the original call and the repair attempt return junk.
	mock := adapter.NewMockAdapterWithResponses(nil, "still not json")
	p := New(mock, "mock-1")

	plan := p.Plan(context.Background(), "question", nil)

	if plan.Intent != schema.IntentMixed || plan.Confidence != 0.5 {
		t.Errorf("expected fallback plan, got %+v", plan)
	}
	if mock.Calls != 2 {
		t.Errorf("calls = %d, want 2", mock.Calls)
	}
}

func TestPlanDefaults(t *testing.T) {
	// Missing queries and agents get sensible defaults; confidence is
	// clamped into [0, 1].
	mock := adapter.NewMockAdapterWithResponses(map[string]string{
		"holiday": `{"language": "en", "intent": "mixed", "confidence": 1.7, "reasoning": "r", "retrieval_queries": [], "agents_to_call": []}`,
	}, "")
	p := New(mock, "mock-1")

	question := "How much holiday do I get?"
	plan := p.Plan(context.Background(), question, nil)

	if plan.Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", plan.Confidence)
	}
	if len(plan.RetrievalQueries) != 1 || plan.RetrievalQueries[0] != question {
		t.Errorf("queries = %v, want defaulted to [question]", plan.RetrievalQueries)
	}
	if len(plan.Agents) != 2 {
		t.Errorf("agents = %v, want defaulted to both", plan.Agents)
	}
}

func TestPlanInvalidEnumTriggersFallback(t *testing.T) {
	mock := adapter.NewMockAdapterWithResponses(map[string]string{
		"question": `{"language": "xx", "intent": "mixed", "confidence": 0.5, "reasoning": "r", "retrieval_queries": ["q"], "agents_to_call": ["guichet"]}`,
	}, "")
	p := New(mock, "mock-1", WithRepair(false))

	plan := p.Plan(context.Background(), "question", nil)

	if plan.Language != schema.LangEnglish || plan.Intent != schema.IntentMixed {
		t.Errorf("expected fallback plan, got %+v", plan)
	}
}

func TestPlanBoundsHistory(t *testing.T) {
	mock := adapter.NewMockAdapterWithResponses(map[string]string{
		"ADEM": goodPlanJSON,
	}, "")
	p := New(mock, "mock-1")

	history := make([]schema.Turn, 30)
	for i := range history {
		history[i] = schema.Turn{Role: "user", Content: "earlier turn"}
	}
	req := p.buildRequest("ADEM question", history)

	if len(req.Messages) != maxHistoryTurns+1 {
		t.Errorf("messages = %d, want %d", len(req.Messages), maxHistoryTurns+1)
	}
	if req.Messages[len(req.Messages)-1].Content != "ADEM question" {
		t.Errorf("last message should be the question")
	}
}
