package challenge

import (
	"context"
	"errors"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and single-instance setups.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store. A non-positive ttl falls back
// to five minutes.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Issue(_ context.Context, ownerID string) (string, error) {
	value, err := newChallenge()
	if err != nil {
		return "", errors.Join(ErrFailedToIssueChallenge, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ownerID] = memoryEntry{value: value, expiresAt: s.now().Add(s.ttl)}
	return value, nil
}

func (s *MemoryStore) Consume(_ context.Context, ownerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[ownerID]
	if !ok {
		return "", ErrNoChallenge
	}
	delete(s.entries, ownerID)

	if s.now().After(entry.expiresAt) {
		return "", ErrNoChallenge
	}
	return entry.value, nil
}
