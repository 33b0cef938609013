// Package schema defines the data model shared by every pipeline stage:
// evidence, plans, specialist answers and the final response.
package schema

import (
	"fmt"
	"strings"
)

// Language is an ISO 639-1 code for one of the supported answer languages.
type Language string

const (
	LangEnglish Language = "en"
	LangFrench  Language = "fr"
	LangGerman  Language = "de"
)

// SupportedLanguages lists the languages the pipeline can answer in.
var SupportedLanguages = []Language{LangEnglish, LangFrench, LangGerman}

// ParseLanguage maps a string to a supported language code.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangEnglish:
		return LangEnglish, true
	case LangFrench:
		return LangFrench, true
	case LangGerman:
		return LangGerman, true
	}
	return "", false
}

// Intent classifies what kind of help a question asks for.
type Intent string

const (
	IntentProcedural Intent = "procedural"
	IntentLegal      Intent = "legal"
	IntentMixed      Intent = "mixed"
)

// ParseIntent maps a string to a known intent.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentProcedural:
		return IntentProcedural, true
	case IntentLegal:
		return IntentLegal, true
	case IntentMixed:
		return IntentMixed, true
	}
	return "", false
}

// Agent identifies a domain specialist responder.
type Agent string

const (
	// AgentGuichet answers administrative-procedure questions
	// (forms, registrations, deadlines, front-desk processes).
	AgentGuichet Agent = "guichet"
	// AgentLegal answers employment-law questions.
	AgentLegal Agent = "legal"
)

// AllAgents lists every responder in canonical output order:
// procedural guidance always precedes legal context.
var AllAgents = []Agent{AgentGuichet, AgentLegal}

// ParseAgent maps a string to a known agent.
func ParseAgent(s string) (Agent, bool) {
	switch Agent(strings.ToLower(strings.TrimSpace(s))) {
	case AgentGuichet:
		return AgentGuichet, true
	case AgentLegal:
		return AgentLegal, true
	}
	return "", false
}

// Domain tags the source category a piece of evidence came from.
type Domain string

const (
	DomainGuichet Domain = "guichet"
	DomainLegal   Domain = "legal"
	DomainMixed   Domain = "mixed"
)

// Confidence is an ordinal confidence level, not a numeric score.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank orders confidence levels: low < medium < high.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// ParseConfidence maps a string to a confidence level.
// Unknown values degrade to low rather than failing.
func ParseConfidence(s string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Turn is a single prior message in the conversation history.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Evidence is an atomic retrieved fact with provenance metadata.
// Immutable once materialized; ids and retrieval dates are always fresh
// even on cache hits, since the cache stores raw results, not evidence.
type Evidence struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Section     string `json:"section"`
	Snippet     string `json:"snippet"`
	Domain      Domain `json:"domain"`
	RetrievedAt string `json:"retrieved_at"` // date granularity, 2006-01-02
}

// Citation is a deduplicated, user-facing view over evidence sharing the
// same (url, section) location.
type Citation struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Section     string   `json:"section"`
	RetrievedAt string   `json:"retrieved_at"`
	EvidenceIDs []string `json:"evidence_ids"`
}

// Plan is the planner's routing decision for one incoming question.
type Plan struct {
	Language         Language `json:"language"`
	Intent           Intent   `json:"intent"`
	Confidence       float64  `json:"confidence"` // 0..1
	Reasoning        string   `json:"reasoning"`
	RetrievalQueries []string `json:"retrieval_queries"`
	Agents           []Agent  `json:"agents_to_call"`
}

// SpecialistAnswer is one responder's structured answer.
type SpecialistAnswer struct {
	Agent             Agent      `json:"agent"`
	Answer            string     `json:"answer"`
	Steps             []string   `json:"steps"`
	Evidence          []Evidence `json:"evidence"`
	Confidence        Confidence `json:"confidence"`
	Limitations       []string   `json:"limitations"`
	SuggestedSearches []string   `json:"suggested_searches"`
}

// Response is the externally visible result of one question.
// Not mutated after assembly.
type Response struct {
	Language          Language   `json:"language"`
	Answer            string     `json:"answer"`
	Steps             []string   `json:"steps"`
	Citations         []Citation `json:"citations"`
	Confidence        Confidence `json:"confidence"`
	Limitations       []string   `json:"limitations"`
	SuggestedSearches []string   `json:"suggested_searches"`
	Evidence          []Evidence `json:"evidence"`
}

// Validate checks the seven required top-level fields are present.
// Slice fields must be non-nil so the JSON form always carries arrays.
func (r *Response) Validate() error {
	if r == nil {
		return fmt.Errorf("response is nil")
	}
	if _, ok := ParseLanguage(string(r.Language)); !ok {
		return fmt.Errorf("language %q is not supported", r.Language)
	}
	if strings.TrimSpace(r.Answer) == "" {
		return fmt.Errorf("answer is empty")
	}
	if r.Steps == nil {
		return fmt.Errorf("steps is missing")
	}
	if r.Citations == nil {
		return fmt.Errorf("citations is missing")
	}
	switch r.Confidence {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
	default:
		return fmt.Errorf("confidence %q is not a known level", r.Confidence)
	}
	if r.Limitations == nil {
		return fmt.Errorf("limitations is missing")
	}
	if r.SuggestedSearches == nil {
		return fmt.Errorf("suggested_searches is missing")
	}
	return nil
}

// CitedEvidenceIDs returns every evidence id referenced by any citation.
func (r *Response) CitedEvidenceIDs() []string {
	var ids []string
	for _, c := range r.Citations {
		ids = append(ids, c.EvidenceIDs...)
	}
	return ids
}
