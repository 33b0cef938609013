package sources

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

// Fixture is one stub document plus the keywords it answers for.
type Fixture struct {
	Result   `yaml:",inline"`
	Keywords []string `yaml:"keywords"`
}

// FixtureSource serves results from an in-process fixture set. It stands
// in for a real crawl/search backend while keeping the retrieval and
// caching behavior real.
type FixtureSource struct {
	name         string
	domain       schema.Domain
	allowedHosts []string
	fixtures     []Fixture
	maxResults   int
	// failWith, when set, makes every Fetch fail. Used to exercise the
	// per-query failure isolation path.
	failWith error
}

// FixtureOption configures a FixtureSource.
type FixtureOption func(*FixtureSource)

// WithMaxResults caps the number of results per query.
func WithMaxResults(max int) FixtureOption {
	return func(s *FixtureSource) {
		s.maxResults = max
	}
}

// WithFixtures replaces the built-in fixture set.
func WithFixtures(fixtures []Fixture) FixtureOption {
	return func(s *FixtureSource) {
		s.fixtures = fixtures
	}
}

// WithFetchError makes the source fail every fetch.
func WithFetchError(err error) FixtureOption {
	return func(s *FixtureSource) {
		s.failWith = err
	}
}

// NewFixtureSource creates a fixture-backed source for a domain.
func NewFixtureSource(name string, domain schema.Domain, hosts []string, fixtures []Fixture, opts ...FixtureOption) *FixtureSource {
	s := &FixtureSource{
		name:         name,
		domain:       domain,
		allowedHosts: hosts,
		fixtures:     fixtures,
		maxResults:   5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source identifier.
func (s *FixtureSource) Name() string { return s.name }

// Domain returns the source-category tag.
func (s *FixtureSource) Domain() schema.Domain { return s.domain }

// AllowedHosts returns the hosts this source may cite.
func (s *FixtureSource) AllowedHosts() []string { return s.allowedHosts }

// Available returns true when the source has fixtures to serve.
func (s *FixtureSource) Available() bool { return s.failWith != nil || len(s.fixtures) > 0 }

// Fetch returns fixtures scored against the query keywords. Queries that
// match nothing fall back to the leading fixtures so the stub always has
// something to say, mirroring the mock backend it replaces.
func (s *FixtureSource) Fetch(ctx context.Context, query string, _ schema.Language) ([]Result, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := strings.Fields(strings.ToLower(query))

	type scored struct {
		fixture Fixture
		score   int
		pos     int
	}
	var matches []scored
	for i, f := range s.fixtures {
		score := 0
		haystack := strings.ToLower(f.Title + " " + f.Section + " " + strings.Join(f.Keywords, " "))
		for _, tok := range tokens {
			if len(tok) < 3 {
				continue
			}
			if strings.Contains(haystack, tok) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{fixture: f, score: score, pos: i})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].pos < matches[j].pos
		}
		return matches[i].score > matches[j].score
	})

	var results []Result
	for _, m := range matches {
		results = append(results, m.fixture.Result)
	}
	if len(results) == 0 {
		for _, f := range s.fixtures {
			results = append(results, f.Result)
		}
	}
	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}
	return results, nil
}

// LoadFixtures reads a fixture set from a YAML file.
func LoadFixtures(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fixtures []Fixture
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures %s: %w", path, err)
	}
	return fixtures, nil
}
