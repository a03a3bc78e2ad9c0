package store

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemorySessionStore is an in-process SessionStore for development and
// tests. Entries expire after an hour of inactivity.
type MemorySessionStore struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewMemorySessionStore() *MemorySessionStore {
	// Default expiration 1 hour, purge every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &MemorySessionStore{
		cache: c,
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, threadID string) (SessionState, error) {
	if x, found := s.cache.Get(threadID); found {
		return x.(SessionState), nil
	}
	return SessionState{}, nil
}

func (s *MemorySessionStore) SetSummary(ctx context.Context, threadID string, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.Get(ctx, threadID)
	state.ConversationSummary = summary
	s.cache.Set(threadID, state, cache.DefaultExpiration)
	return nil
}

func (s *MemorySessionStore) AppendManifest(ctx context.Context, threadID string, entry ManifestEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.Get(ctx, threadID)
	updated, changed := AppendManifest(state.FileManifest, entry)
	if !changed {
		return false, nil
	}
	state.FileManifest = updated
	s.cache.Set(threadID, state, cache.DefaultExpiration)
	return true, nil
}
