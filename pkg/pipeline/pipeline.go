// Package pipeline orchestrates one question through planning,
// retrieval, the specialist responders, synthesis and assembly.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk-lu/frontdesk/pkg/agents"
	"github.com/frontdesk-lu/frontdesk/pkg/assemble"
	"github.com/frontdesk-lu/frontdesk/pkg/planner"
	"github.com/frontdesk-lu/frontdesk/pkg/retrieval"
	"github.com/frontdesk-lu/frontdesk/pkg/runlog"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
	"github.com/frontdesk-lu/frontdesk/pkg/synthesis"
)

// Request is one question to answer.
type Request struct {
	Question string
	// Language, when set, overrides the planner's detected language.
	Language schema.Language
	History  []schema.Turn
}

// Pipeline wires the stages together. Every stage degrades rather than
// fails, so ProcessQuestion always returns a well-formed response.
type Pipeline struct {
	planner    *planner.Planner
	retriever  *retrieval.Retriever
	responders map[schema.Agent]agents.Responder
	synth      *synthesis.Synthesizer
	assembler  *assemble.Assembler
	runlogDir  string
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRunlogDir enables run records under the given directory.
func WithRunlogDir(dir string) Option {
	return func(p *Pipeline) { p.runlogDir = dir }
}

// WithLogger sets the pipeline's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a Pipeline from its stages.
func New(pl *planner.Planner, r *retrieval.Retriever, responders []agents.Responder, s *synthesis.Synthesizer, a *assemble.Assembler, opts ...Option) *Pipeline {
	byAgent := make(map[schema.Agent]agents.Responder, len(responders))
	for _, resp := range responders {
		byAgent[resp.Agent()] = resp
	}

	p := &Pipeline{
		planner:    pl,
		retriever:  r,
		responders: byAgent,
		synth:      s,
		assembler:  a,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessQuestion answers one question end to end. It never returns an
// error and never panics outward; total failure yields a well-formed
// low-confidence response.
func (p *Pipeline) ProcessQuestion(ctx context.Context, req Request) (resp *schema.Response) {
	runID := uuid.NewString()
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panicked", "run_id", runID, "panic", r)
			resp = errorResponse(req)
		}
	}()

	writer := p.newRunWriter(runID)
	stageStart := time.Now()

	plan := p.planner.Plan(ctx, req.Question, req.History)
	if req.Language != "" {
		plan.Language = req.Language
	}
	p.writeStage(writer, runlog.StageRecord{
		Name:           "planner",
		Output:         fmt.Sprintf("intent=%s language=%s agents=%v", plan.Intent, plan.Language, plan.Agents),
		DurationMillis: time.Since(stageStart).Milliseconds(),
	})

	stageStart = time.Now()
	evidence := p.retrieve(ctx, plan)
	p.writeStage(writer, runlog.StageRecord{
		Name:           "retrieval",
		EvidenceCount:  len(evidence),
		DurationMillis: time.Since(stageStart).Milliseconds(),
	})

	stageStart = time.Now()
	answers := p.respond(ctx, req.Question, plan, evidence)
	p.writeStage(writer, runlog.StageRecord{
		Name:           "responders",
		Output:         fmt.Sprintf("answers=%d", len(answers)),
		DurationMillis: time.Since(stageStart).Milliseconds(),
	})

	stageStart = time.Now()
	merged := p.synth.Synthesize(ctx, req.Question, plan.Language, answers)
	p.writeStage(writer, runlog.StageRecord{
		Name:           "synthesis",
		Output:         merged.Answer,
		DurationMillis: time.Since(stageStart).Milliseconds(),
	})

	conflicts := assemble.DetectConflicts(evidence)
	resp = p.assembler.Assemble(plan, evidence, merged, conflicts)

	if writer != nil {
		if err := writer.WriteRun(runlog.RunRecord{
			ID:        runID,
			Timestamp: started.UTC(),
			Question:  req.Question,
			Language:  plan.Language,
			Plan:      plan,
			Response:  resp,
		}); err != nil {
			p.logger.Warn("writing run record failed", "run_id", runID, "error", err)
		}
	}

	p.logger.Info("question processed",
		"run_id", runID,
		"intent", plan.Intent,
		"evidence", len(evidence),
		"confidence", resp.Confidence,
		"duration_ms", time.Since(started).Milliseconds())
	return resp
}

// retrieve gathers evidence for every agent the plan calls, each agent
// from its own source domain.
func (p *Pipeline) retrieve(ctx context.Context, plan *schema.Plan) []schema.Evidence {
	var evidence []schema.Evidence
	for _, agent := range orderedAgents(plan.Agents) {
		evidence = append(evidence, p.retriever.Retrieve(ctx, domainFor(agent), plan.RetrievalQueries, plan.Language)...)
	}
	return evidence
}

// respond fans out to the planned responders concurrently. Results land
// in per-agent slots so output order stays canonical regardless of
// which specialist finishes first.
func (p *Pipeline) respond(ctx context.Context, question string, plan *schema.Plan, evidence []schema.Evidence) []*schema.SpecialistAnswer {
	if len(evidence) == 0 {
		// With nothing retrieved the specialists have nothing to answer
		// from; returning no answers routes the question to the
		// synthesizer's no-information path.
		p.logger.Warn("no evidence retrieved, skipping specialists", "agents", plan.Agents)
		return nil
	}

	agentsToCall := orderedAgents(plan.Agents)
	slots := make([]*schema.SpecialistAnswer, len(agentsToCall))

	var wg sync.WaitGroup
	for i, agent := range agentsToCall {
		responder, ok := p.responders[agent]
		if !ok {
			p.logger.Warn("no responder registered for agent", "agent", agent)
			continue
		}

		agentEvidence := evidenceFor(domainFor(agent), evidence)
		wg.Add(1)
		go func(i int, agent schema.Agent, r agents.Responder) {
			defer wg.Done()
			// A panicking specialist loses its slot, not the run.
			defer func() {
				if rec := recover(); rec != nil {
					p.logger.Error("responder panicked", "agent", agent, "panic", rec)
				}
			}()
			slots[i] = r.Respond(ctx, question, plan.Language, agentEvidence)
		}(i, agent, responder)
	}
	wg.Wait()

	answers := make([]*schema.SpecialistAnswer, 0, len(slots))
	for _, a := range slots {
		if a != nil {
			answers = append(answers, a)
		}
	}
	return answers
}

func (p *Pipeline) newRunWriter(runID string) *runlog.Writer {
	if p.runlogDir == "" {
		return nil
	}
	writer, err := runlog.NewWriter(p.runlogDir, runID)
	if err != nil {
		p.logger.Warn("run record disabled for this run", "run_id", runID, "error", err)
		return nil
	}
	return writer
}

func (p *Pipeline) writeStage(writer *runlog.Writer, record runlog.StageRecord) {
	if writer == nil {
		return
	}
	if err := writer.WriteStage(record); err != nil {
		p.logger.Warn("writing stage record failed", "stage", record.Name, "error", err)
	}
}

// orderedAgents normalizes the plan's agent list to canonical order and
// drops duplicates and unknown values.
func orderedAgents(planned []schema.Agent) []schema.Agent {
	var ordered []schema.Agent
	for _, agent := range schema.AllAgents {
		for _, p := range planned {
			if p == agent {
				ordered = append(ordered, agent)
				break
			}
		}
	}
	return ordered
}

func domainFor(agent schema.Agent) schema.Domain {
	switch agent {
	case schema.AgentLegal:
		return schema.DomainLegal
	default:
		return schema.DomainGuichet
	}
}

func evidenceFor(domain schema.Domain, evidence []schema.Evidence) []schema.Evidence {
	var filtered []schema.Evidence
	for _, ev := range evidence {
		if ev.Domain == domain || ev.Domain == schema.DomainMixed {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// errorResponse is the guard rail for unexpected failures: a minimal
// but schema-valid response the caller can still render.
func errorResponse(req Request) *schema.Response {
	lang := req.Language
	if _, ok := schema.ParseLanguage(string(lang)); !ok {
		lang = schema.LangEnglish
	}
	return &schema.Response{
		Language:          lang,
		Answer:            "An internal error prevented this question from being answered. Please try again.",
		Steps:             []string{},
		Citations:         []schema.Citation{},
		Confidence:        schema.ConfidenceLow,
		Limitations:       []string{"The answering pipeline failed before completing."},
		SuggestedSearches: []string{},
		Evidence:          []schema.Evidence{},
	}
}
