package gate

import (
	"testing"

	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

func validResponse() *schema.Response {
	return &schema.Response{
		Language: schema.LangEnglish,
		Answer:   "Register with ADEM.",
		Steps:    []string{"Register"},
		Citations: []schema.Citation{{
			Title:       "Registering as a jobseeker",
			URL:         "https://guichet.public.lu/en/citoyens/adem.html",
			Section:     "Who can register",
			RetrievedAt: "2026-08-29",
			EvidenceIDs: []string{"ev-1"},
		}},
		Confidence:        schema.ConfidenceHigh,
		Limitations:       []string{},
		SuggestedSearches: []string{},
		Evidence: []schema.Evidence{{
			ID:          "ev-1",
			URL:         "https://guichet.public.lu/en/citoyens/adem.html",
			Title:       "Registering as a jobseeker",
			Section:     "Who can register",
			Snippet:     "Residents may register with ADEM.",
			Domain:      schema.DomainGuichet,
			RetrievedAt: "2026-08-29",
		}},
	}
}

var testHosts = map[schema.Domain][]string{
	schema.DomainGuichet: {"guichet.public.lu", "adem.public.lu"},
	schema.DomainLegal:   {"legilux.public.lu", "itm.lu"},
}

func TestCompletenessGatePasses(t *testing.T) {
	result := NewCompletenessGate().Evaluate(validResponse())
	if !result.Passed {
		t.Errorf("expected pass, got %+v", result.Violations)
	}
}

func TestCompletenessGateFailsOnEmptyAnswer(t *testing.T) {
	resp := validResponse()
	resp.Answer = "  "
	result := NewCompletenessGate().Evaluate(resp)
	if result.Passed {
		t.Errorf("expected failure for empty answer")
	}
}

func TestCompletenessGateFailsOnNilSlices(t *testing.T) {
	resp := validResponse()
	resp.Limitations = nil
	result := NewCompletenessGate().Evaluate(resp)
	if result.Passed {
		t.Errorf("expected failure for nil limitations")
	}
}

func TestCitationIntegrityGatePasses(t *testing.T) {
	result := NewCitationIntegrityGate().Evaluate(validResponse())
	if !result.Passed {
		t.Errorf("expected pass, got %+v", result.Violations)
	}
}

func TestCitationIntegrityGateUnknownID(t *testing.T) {
	resp := validResponse()
	resp.Citations[0].EvidenceIDs = []string{"ev-404"}
	result := NewCitationIntegrityGate().Evaluate(resp)
	if result.Passed {
		t.Fatalf("expected failure for dangling evidence id")
	}
	if result.Violations[0].Rule != "evidence-id-exists" {
		t.Errorf("rule = %q", result.Violations[0].Rule)
	}
}

func TestCitationIntegrityGateEmptyCitation(t *testing.T) {
	resp := validResponse()
	resp.Citations[0].EvidenceIDs = nil
	result := NewCitationIntegrityGate().Evaluate(resp)
	if result.Passed {
		t.Errorf("expected failure for citation without evidence")
	}
}

func TestAllowlistGatePasses(t *testing.T) {
	result := NewAllowlistGate(testHosts).Evaluate(validResponse())
	if !result.Passed {
		t.Errorf("expected pass, got %+v", result.Violations)
	}
}

func TestAllowlistGateSubdomainAllowed(t *testing.T) {
	resp := validResponse()
	resp.Evidence[0].URL = "https://www.guichet.public.lu/page.html"
	result := NewAllowlistGate(testHosts).Evaluate(resp)
	if !result.Passed {
		t.Errorf("subdomains of allowed hosts should pass, got %+v", result.Violations)
	}
}

func TestAllowlistGateRejectsForeignHost(t *testing.T) {
	resp := validResponse()
	resp.Evidence[0].URL = "https://example.com/page.html"
	result := NewAllowlistGate(testHosts).Evaluate(resp)
	if result.Passed {
		t.Fatalf("expected failure for foreign host")
	}
	if result.Violations[0].Severity != "warning" {
		t.Errorf("severity = %q, want warning", result.Violations[0].Severity)
	}
}

func TestAllowlistGateRejectsCrossDomainHost(t *testing.T) {
	// A legal host is not acceptable for guichet-tagged evidence.
	resp := validResponse()
	resp.Evidence[0].URL = "https://legilux.public.lu/eli/code/travail"
	result := NewAllowlistGate(testHosts).Evaluate(resp)
	if result.Passed {
		t.Errorf("expected failure for cross-domain host")
	}
}

func TestAllowlistGateMixedDomainUsesUnion(t *testing.T) {
	resp := validResponse()
	resp.Evidence[0].Domain = schema.DomainMixed
	resp.Evidence[0].URL = "https://legilux.public.lu/eli/code/travail"
	result := NewAllowlistGate(testHosts).Evaluate(resp)
	if !result.Passed {
		t.Errorf("mixed evidence should accept any configured host, got %+v", result.Violations)
	}
}

func TestEvaluateAllCollectsFailures(t *testing.T) {
	resp := validResponse()
	resp.Citations[0].EvidenceIDs = []string{"ev-404"}
	resp.Evidence[0].URL = "https://example.com/x"

	failed := EvaluateAll([]Gate{
		NewCompletenessGate(),
		NewCitationIntegrityGate(),
		NewAllowlistGate(testHosts),
	}, resp)

	if len(failed) != 2 {
		t.Errorf("failed gates = %d, want 2 (%v)", len(failed), failed)
	}
	if _, ok := failed["completeness"]; ok {
		t.Errorf("completeness should pass")
	}
}
