package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryFailureStore is a mutex-guarded map. Limits are per process.
type MemoryFailureStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryFailureStore() *MemoryFailureStore {
	return &MemoryFailureStore{entries: make(map[string]Entry)}
}

func (s *MemoryFailureStore) Get(_ context.Context, key string, now time.Time) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	if e.Expired(now) {
		delete(s.entries, key)
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (s *MemoryFailureStore) Incr(_ context.Context, key string, now, resetAt time.Time) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.Expired(now) {
		e = Entry{}
	}
	e.Count++
	e.ResetAt = resetAt
	s.entries[key] = e
	return e, nil
}

func (s *MemoryFailureStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryFailureStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked keys, expired or not.
func (s *MemoryFailureStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
