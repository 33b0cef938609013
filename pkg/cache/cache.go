// Package cache provides the process-wide evidence cache consulted by
// the retrieval layer. Entries map a (domain, normalized query) key to
// raw retrieval results and expire lazily after a fixed TTL.
package cache

import (
	"sync"
	"time"

	"github.com/frontdesk-lu/frontdesk/pkg/retrieval/sources"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

// DefaultTTL is how long cached results stay valid.
const DefaultTTL = 24 * time.Hour

// Key identifies a cache entry.
type Key struct {
	Domain schema.Domain
	Query  string // already normalized by the retriever
}

// Store defines the evidence cache interface. Implementations must be
// safe for concurrent use; last-writer-wins on population races is
// acceptable since cached content is idempotent for a given query.
type Store interface {
	// Get returns the cached results for a key, or false on miss or
	// expired entry.
	Get(key Key) ([]sources.Result, bool)

	// Put stores results for a key, stamping the current time.
	Put(key Key, results []sources.Result)

	// Purge drops every expired entry.
	Purge()
}

type entry struct {
	results  []sources.Result
	storedAt time.Time
}

// MemoryStore is an in-process TTL cache.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key]entry
	ttl     time.Duration
	now     func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *MemoryStore) {
		m.ttl = ttl
	}
}

// WithClock injects a clock, used by tests to control expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		m.now = now
	}
}

// NewMemoryStore creates an in-memory cache with the default TTL.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		entries: make(map[Key]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns cached results if the entry is younger than the TTL.
// Expired entries are evicted on read; there is no background sweep.
func (m *MemoryStore) Get(key Key) ([]sources.Result, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if m.now().Sub(e.storedAt) >= m.ttl {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry.
		if cur, ok := m.entries[key]; ok && m.now().Sub(cur.storedAt) >= m.ttl {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	results := make([]sources.Result, len(e.results))
	copy(results, e.results)
	return results, true
}

// Put stores results under the key with the current timestamp.
func (m *MemoryStore) Put(key Key, results []sources.Result) {
	stored := make([]sources.Result, len(results))
	copy(stored, results)

	m.mu.Lock()
	m.entries[key] = entry{results: stored, storedAt: m.now()}
	m.mu.Unlock()
}

// Purge drops every expired entry.
func (m *MemoryStore) Purge() {
	now := m.now()
	m.mu.Lock()
	for key, e := range m.entries {
		if now.Sub(e.storedAt) >= m.ttl {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}

// Len returns the number of live entries, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
