package retrieval

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/frontdesk-lu/frontdesk/pkg/cache"
	"github.com/frontdesk-lu/frontdesk/pkg/retrieval/sources"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingSource wraps a FixtureSource and counts fetches.
type countingSource struct {
	*sources.FixtureSource
	mu      sync.Mutex
	fetches int
}

func (c *countingSource) Fetch(ctx context.Context, query string, lang schema.Language) ([]sources.Result, error) {
	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()
	return c.FixtureSource.Fetch(ctx, query, lang)
}

func newTestRetriever(t *testing.T, src sources.Source) (*Retriever, *cache.MemoryStore) {
	t.Helper()
	reg := sources.NewRegistry()
	reg.Register(src)
	store := cache.NewMemoryStore()
	r := New(reg, store, WithLogger(discardLogger()))
	return r, store
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct{ in, want string }{
		{"How do I Register?", "how do i register?"},
		{"  collapse\t\twhitespace \n here ", "collapse whitespace here"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRetrieveMaterializesFreshEvidence(t *testing.T) {
	r, _ := newTestRetriever(t, sources.NewGuichetSource())

	first := r.Retrieve(context.Background(), schema.DomainGuichet, []string{"register as jobseeker"}, schema.LangEnglish)
	second := r.Retrieve(context.Background(), schema.DomainGuichet, []string{"register as jobseeker"}, schema.LangEnglish)

	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("expected identical result counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].URL != second[i].URL || first[i].Title != second[i].Title ||
			first[i].Section != second[i].Section || first[i].Snippet != second[i].Snippet {
			t.Errorf("evidence content differs at %d within TTL window", i)
		}
		if first[i].ID == second[i].ID {
			t.Errorf("evidence ids must be fresh per materialization")
		}
		if first[i].Domain != schema.DomainGuichet {
			t.Errorf("evidence domain = %q", first[i].Domain)
		}
		if first[i].RetrievedAt == "" {
			t.Errorf("evidence missing retrieval date")
		}
	}
}

func TestRetrieveUsesCache(t *testing.T) {
	src := &countingSource{FixtureSource: sources.NewGuichetSource()}
	r, _ := newTestRetriever(t, src)

	r.Retrieve(context.Background(), schema.DomainGuichet, []string{"Register As Jobseeker"}, schema.LangEnglish)
	// Same query modulo case and spacing hits the cache.
	r.Retrieve(context.Background(), schema.DomainGuichet, []string{"register   as jobseeker"}, schema.LangEnglish)

	if src.fetches != 1 {
		t.Fatalf("fetches = %d, want 1 (second call should hit cache)", src.fetches)
	}
}

func TestRetrieveFailureIsolation(t *testing.T) {
	// One domain's source fails outright; the retriever returns an
	// empty list instead of an error.
	r, _ := newTestRetriever(t, sources.NewGuichetSource(sources.WithFetchError(errors.New("backend down"))))

	evidence := r.Retrieve(context.Background(), schema.DomainGuichet, []string{"a", "b"}, schema.LangEnglish)
	if len(evidence) != 0 {
		t.Fatalf("expected no evidence from failing source, got %d", len(evidence))
	}
}

func TestRetrieveMaxParallelZeroClampedToOne(t *testing.T) {
	reg := sources.NewRegistry()
	reg.Register(sources.NewGuichetSource())
	r := New(reg, cache.NewMemoryStore(), WithLogger(discardLogger()), WithMaxParallel(0))

	evidence := r.Retrieve(context.Background(), schema.DomainGuichet,
		[]string{"register as jobseeker", "unemployment benefit"}, schema.LangEnglish)
	if len(evidence) == 0 {
		t.Fatalf("retrieval stalled with max_parallel 0")
	}
}

func TestRetrieveUnknownDomain(t *testing.T) {
	r, _ := newTestRetriever(t, sources.NewGuichetSource())
	evidence := r.Retrieve(context.Background(), schema.DomainLegal, []string{"anything"}, schema.LangEnglish)
	if len(evidence) != 0 {
		t.Fatalf("expected no evidence for unregistered domain")
	}
}

func TestRetrieveMultipleQueriesKeepOrder(t *testing.T) {
	r, _ := newTestRetriever(t, sources.NewLegalSource(sources.WithMaxResults(1)))

	evidence := r.Retrieve(context.Background(), schema.DomainLegal,
		[]string{"notice period dismissal", "annual leave entitlement"}, schema.LangEnglish)
	if len(evidence) != 2 {
		t.Fatalf("expected one result per query, got %d", len(evidence))
	}
	if evidence[0].Section != "Art. L.124-3 Notice periods" {
		t.Errorf("first slot = %q, want notice periods result", evidence[0].Section)
	}
	if evidence[1].Section != "Art. L.233-4 Annual leave entitlement" {
		t.Errorf("second slot = %q, want annual leave result", evidence[1].Section)
	}
}
