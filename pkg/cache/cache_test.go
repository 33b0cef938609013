package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/frontdesk-lu/frontdesk/pkg/retrieval/sources"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testKey() Key {
	return Key{Domain: schema.DomainGuichet, Query: "register as jobseeker"}
}

func testResults() []sources.Result {
	return []sources.Result{{URL: "https://guichet.public.lu/a", Title: "A", Section: "S", Snippet: "text"}}
}

func TestMemoryStoreHitAndMiss(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get(testKey()); ok {
		t.Fatalf("expected miss on empty store")
	}

	store.Put(testKey(), testResults())
	got, ok := store.Get(testKey())
	if !ok {
		t.Fatalf("expected hit")
	}
	if len(got) != 1 || got[0].URL != "https://guichet.public.lu/a" {
		t.Fatalf("unexpected results: %+v", got)
	}

	// Different domain is a different key.
	if _, ok := store.Get(Key{Domain: schema.DomainLegal, Query: "register as jobseeker"}); ok {
		t.Fatalf("expected miss for other domain")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(WithTTL(24*time.Hour), WithClock(clock.Now))

	store.Put(testKey(), testResults())

	clock.Advance(23 * time.Hour)
	if _, ok := store.Get(testKey()); !ok {
		t.Fatalf("entry expired too early")
	}

	clock.Advance(2 * time.Hour)
	if _, ok := store.Get(testKey()); ok {
		t.Fatalf("entry should have expired")
	}
	// Expired entry is evicted on read.
	if store.Len() != 0 {
		t.Errorf("expired entry not evicted, len = %d", store.Len())
	}
}

func TestMemoryStoreLastWriterWins(t *testing.T) {
	store := NewMemoryStore()
	store.Put(testKey(), testResults())
	store.Put(testKey(), []sources.Result{{URL: "https://guichet.public.lu/b", Title: "B"}})

	got, ok := store.Get(testKey())
	if !ok || len(got) != 1 || got[0].Title != "B" {
		t.Fatalf("expected second write to win, got %+v", got)
	}
}

func TestMemoryStoreCopiesResults(t *testing.T) {
	store := NewMemoryStore()
	in := testResults()
	store.Put(testKey(), in)
	in[0].Snippet = "mutated"

	got, _ := store.Get(testKey())
	if got[0].Snippet != "text" {
		t.Fatalf("cache aliased caller slice")
	}

	got[0].Snippet = "mutated again"
	fresh, _ := store.Get(testKey())
	if fresh[0].Snippet != "text" {
		t.Fatalf("cache returned aliased slice")
	}
}

func TestMemoryStorePurge(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(WithTTL(time.Hour), WithClock(clock.Now))

	store.Put(Key{Domain: schema.DomainGuichet, Query: "old"}, testResults())
	clock.Advance(2 * time.Hour)
	store.Put(Key{Domain: schema.DomainGuichet, Query: "new"}, testResults())

	store.Purge()
	if store.Len() != 1 {
		t.Fatalf("Purge() kept %d entries, want 1", store.Len())
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Put(testKey(), testResults())
				store.Get(testKey())
			}
		}()
	}
	wg.Wait()

	if got, ok := store.Get(testKey()); !ok || len(got) != 1 {
		t.Fatalf("store corrupted after concurrent access")
	}
}
