// Package cache provides an in-memory TTL store for discovery results.
//
// Entries are memory-resident only; nothing survives a process restart.
// Expiry is lazy: reads that find a stale entry delete it before reporting
// a miss, so staleness is never observable. [Store.ClearExpired] performs
// the same check proactively as a housekeeping sweep.
//
// The store is safe for concurrent use; a mutex guards the backing map.
package cache

import (
	"sync"
	"time"
)

// Store is a TTL-keyed in-memory cache. The zero value is not usable;
// create one with [New].
type Store[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]
	now     func() time.Time
}

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// New creates a Store whose entries expire ttl after they are written.
// A ttl of 0 means entries never expire.
func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// TTL returns the time-to-live for entries in this store.
func (s *Store[V]) TTL() time.Duration { return s.ttl }

// Get retrieves the value for key. An entry is valid only while
// now − createdAt < TTL; an expired entry behaves as absent and is
// deleted as a side effect before the miss is reported.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if s.expired(e) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether a fresh entry exists for key. Like [Store.Get], it
// deletes an expired entry before reporting a miss.
func (s *Store[V]) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	if s.expired(e) {
		delete(s.entries, key)
		return false
	}
	return true
}

// Set stores value under key, replacing any existing entry wholesale and
// resetting its creation timestamp.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, createdAt: s.now()}
}

// Delete removes the entry for key, if present.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes all entries.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry[V])
}

// ClearExpired sweeps the store and removes every expired entry.
// Lazy expiry already guarantees staleness is never observed; this is
// housekeeping to bound memory between reads.
func (s *Store[V]) ClearExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, including any that
// have expired but not yet been swept.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store[V]) expired(e entry[V]) bool {
	return s.ttl > 0 && s.now().Sub(e.createdAt) >= s.ttl
}
