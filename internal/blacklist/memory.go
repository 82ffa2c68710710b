package blacklist

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process blacklist, suitable for tests and single-instance deployments
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory blacklist
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke adds the token ID until expiresAt
func (s *MemoryStore) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	if jti == "" {
		return ErrInvalidTokenID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if exp, ok := s.entries[jti]; ok && s.now().Before(exp) {
		return ErrAlreadyRevoked
	}
	s.entries[jti] = s.now().Add(remaining(expiresAt, s.now()))
	return nil
}

// IsRevoked reports whether the token ID is blacklisted; expired entries are dropped lazily
func (s *MemoryStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, ErrInvalidTokenID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.entries, jti)
		return false, nil
	}
	return true, nil
}

// Purge drops expired entries and returns how many were removed
func (s *MemoryStore) Purge(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	now := s.now()
	for jti, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, jti)
			removed++
		}
	}
	return removed, nil
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Purger = (*MemoryStore)(nil)
)
