package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/primogreedy/scout/internal/contracts"
)

// MemoryStore is a mutex-guarded in-memory ledger. It backs tests and
// runs without a configured database; the mutex gives the same
// single-writer-per-key guarantee the repository gets from postgres.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time // key = ticker|region, value = latest seen_at
}

// NewMemoryStore creates an in-memory ledger with the given TTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = contracts.LedgerTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

func key(ticker, region string) string {
	return ticker + "|" + region
}

// IsFresh reports whether the ticker is inside the exclusion window.
// Expired entries are pruned lazily on lookup.
func (s *MemoryStore) IsFresh(ctx context.Context, ticker, region string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(ticker, region)
	seenAt, ok := s.entries[k]
	if !ok {
		return false, nil
	}
	if now.Sub(seenAt) >= s.ttl {
		delete(s.entries, k)
		return false, nil
	}
	return true, nil
}

// Record marks a ticker as seen. Later timestamps win; an append with
// an older timestamp than the stored one is a no-op, matching the
// append-only latest-entry semantics of the postgres repository.
func (s *MemoryStore) Record(ctx context.Context, ticker, region string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(ticker, region)
	if existing, ok := s.entries[k]; ok && existing.After(at) {
		return nil
	}
	s.entries[k] = at
	return nil
}

// Prune removes all expired entries
func (s *MemoryStore) Prune(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for k, seenAt := range s.entries {
		if now.Sub(seenAt) >= s.ttl {
			delete(s.entries, k)
			dropped++
		}
	}
	return dropped, nil
}

// Len returns the number of live entries; test helper
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
