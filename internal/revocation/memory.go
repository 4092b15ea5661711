package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps revocations in process memory.
// It is only suitable for single-instance deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) RecordRevoked(_ context.Context, fingerprint string, expiresAt time.Time) error {
	if !expiresAt.After(s.now()) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[fingerprint]; ok && current.After(expiresAt) {
		return nil
	}
	s.entries[fingerprint] = expiresAt
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, fingerprint string) (bool, error) {
	s.mu.RLock()
	expiresAt, ok := s.entries[fingerprint]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !expiresAt.After(s.now()) {
		s.mu.Lock()
		if current, still := s.entries[fingerprint]; still && !current.After(s.now()) {
			delete(s.entries, fingerprint)
		}
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// PurgeExpired drops entries whose token has expired anyway.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for fp, expiresAt := range s.entries {
		if !expiresAt.After(now) {
			delete(s.entries, fp)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
