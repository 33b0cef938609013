// Package sources provides domain-restricted evidence sources for the
// retrieval layer. The bundled sources are fixture-backed stubs; a real
// search backend plugs in behind the same interface.
package sources

import (
	"context"

	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

// Result is a raw retrieval result before it is materialized into
// evidence. Results are what the cache stores: they carry no identity
// and no retrieval date.
type Result struct {
	URL     string `yaml:"url" json:"url"`
	Title   string `yaml:"title" json:"title"`
	Section string `yaml:"section" json:"section"`
	Snippet string `yaml:"snippet" json:"snippet"`
}

// Source defines the interface for domain-restricted evidence sources.
type Source interface {
	// Name returns the source identifier.
	Name() string

	// Domain returns the source-category tag stamped on evidence.
	Domain() schema.Domain

	// AllowedHosts returns the hosts results from this source may
	// reference. Consumed by the response assembler's allowlist gate.
	AllowedHosts() []string

	// Fetch retrieves results for a normalized query.
	Fetch(ctx context.Context, query string, lang schema.Language) ([]Result, error)

	// Available returns true if the source is currently usable.
	Available() bool
}

// Registry holds all registered sources keyed by domain.
type Registry struct {
	sources map[schema.Domain]Source
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[schema.Domain]Source)}
}

// Register adds a source to the registry.
func (r *Registry) Register(source Source) {
	r.sources[source.Domain()] = source
}

// Get returns the source for a domain.
func (r *Registry) Get(domain schema.Domain) (Source, bool) {
	s, ok := r.sources[domain]
	return s, ok
}

// Available returns all currently usable sources.
func (r *Registry) Available() []Source {
	var available []Source
	for _, agent := range schema.AllAgents {
		if s, ok := r.sources[schema.Domain(agent)]; ok && s.Available() {
			available = append(available, s)
		}
	}
	return available
}

// AllowedHosts returns the allowlist per domain for every registered
// source.
func (r *Registry) AllowedHosts() map[schema.Domain][]string {
	hosts := make(map[schema.Domain][]string, len(r.sources))
	for domain, s := range r.sources {
		hosts[domain] = s.AllowedHosts()
	}
	return hosts
}
