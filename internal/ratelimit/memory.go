package ratelimit

import (
	"sync"
	"time"
)

// memoryStore keeps counters in a process-local map. The right choice for
// single-instance deployments; use the Postgres store when several
// replicas must agree.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[string]Entry),
	}
}

func (s *memoryStore) Get(identity string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identity]
	return entry, ok, nil
}

func (s *memoryStore) Put(identity string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[identity] = entry
	return nil
}

func (s *memoryStore) Delete(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, identity)
	return nil
}

func (s *memoryStore) Sweep(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for identity, entry := range s.entries {
		if entry.ResetTime.Before(now) {
			delete(s.entries, identity)
			removed++
		}
	}
	return removed, nil
}

func (s *memoryStore) Stats(now time.Time) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	for _, entry := range s.entries {
		if entry.ResetTime.After(now) {
			active++
		}
	}

	return Stats{
		TotalIdentities:  len(s.entries),
		ActiveIdentities: active,
		StoreSize:        len(s.entries),
	}, nil
}
