// Package retrieval fetches evidence for planner queries through the
// domain-restricted sources, consulting the process-wide cache first.
package retrieval

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk-lu/frontdesk/pkg/cache"
	"github.com/frontdesk-lu/frontdesk/pkg/retrieval/sources"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

// Retriever resolves queries into evidence. Queries within one call run
// independently: a failing query contributes an empty slice and never
// blocks the batch.
type Retriever struct {
	registry    *sources.Registry
	store       cache.Store
	logger      *slog.Logger
	maxParallel int
	timeout     time.Duration
	now         func() time.Time
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithMaxParallel caps concurrent query fetches. Values below 1 are
// clamped to 1: a zero-capacity semaphore would stall every fetch.
func WithMaxParallel(max int) Option {
	return func(r *Retriever) {
		if max < 1 {
			max = 1
		}
		r.maxParallel = max
	}
}

// WithTimeout bounds one retrieval batch.
func WithTimeout(d time.Duration) Option {
	return func(r *Retriever) {
		r.timeout = d
	}
}

// WithClock injects a clock for evidence retrieval dates.
func WithClock(now func() time.Time) Option {
	return func(r *Retriever) {
		r.now = now
	}
}

// WithLogger sets the retriever's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// New creates a Retriever over the given sources and cache.
func New(registry *sources.Registry, store cache.Store, opts ...Option) *Retriever {
	r := &Retriever{
		registry:    registry,
		store:       store,
		logger:      slog.Default(),
		maxParallel: 4,
		timeout:     30 * time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NormalizeQuery lowercases a query and collapses runs of whitespace.
// Cache keys always use the normalized form.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// Retrieve fetches evidence for every query against one domain. Results
// keep query order regardless of fetch completion order. Evidence is
// always materialized fresh: new ids and today's retrieval date even on
// cache hits, because the cache stores raw results, not evidence.
func (r *Retriever) Retrieve(ctx context.Context, domain schema.Domain, queries []string, lang schema.Language) []schema.Evidence {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	perQuery := make([][]sources.Result, len(queries))
	semaphore := make(chan struct{}, r.maxParallel)
	var wg sync.WaitGroup

	for i, query := range queries {
		wg.Add(1)
		go func(slot int, query string) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				return
			}

			perQuery[slot] = r.fetchOne(ctx, domain, query, lang)
		}(i, query)
	}
	wg.Wait()

	var evidence []schema.Evidence
	date := r.now().Format("2006-01-02")
	for _, results := range perQuery {
		for _, res := range results {
			evidence = append(evidence, schema.Evidence{
				ID:          uuid.NewString(),
				URL:         res.URL,
				Title:       res.Title,
				Section:     res.Section,
				Snippet:     res.Snippet,
				Domain:      domain,
				RetrievedAt: date,
			})
		}
	}
	return evidence
}

// fetchOne resolves a single query, cache first. Failures are logged and
// degrade to an empty result list.
func (r *Retriever) fetchOne(ctx context.Context, domain schema.Domain, query string, lang schema.Language) []sources.Result {
	normalized := NormalizeQuery(query)
	key := cache.Key{Domain: domain, Query: normalized}

	if results, ok := r.store.Get(key); ok {
		return results
	}

	source, ok := r.registry.Get(domain)
	if !ok || !source.Available() {
		r.logger.Warn("no source for domain", "domain", domain)
		return nil
	}

	results, err := source.Fetch(ctx, normalized, lang)
	if err != nil {
		r.logger.Warn("fetch failed", "domain", domain, "query", normalized, "error", err)
		return nil
	}

	r.store.Put(key, results)
	return results
}
