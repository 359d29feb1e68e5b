// Package cache adds time-limited in-memory caching in front of the
// geocoder and the forecast source.
package cache

import (
	"sync"
	"time"
)

// ttlStore is a map of values that expire ttl after they were stored.
// Every lookup counts as either a hit or a miss.
type ttlStore[V any] struct {
	mu      sync.Mutex
	entries map[string]ttlEntry[V]
	ttl     time.Duration
	hits    int
	misses  int
	now     func() time.Time
}

type ttlEntry[V any] struct {
	value  V
	stored time.Time
}

func newTTLStore[V any](ttl time.Duration) *ttlStore[V] {
	return &ttlStore[V]{
		entries: make(map[string]ttlEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns the live value for key and its age. Expired entries are dropped.
func (s *ttlStore[V]) get(key string) (V, time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		age := s.now().Sub(e.stored)
		if age < s.ttl {
			s.hits++
			return e.value, age, true
		}
		delete(s.entries, key)
	}
	s.misses++

	var zero V
	return zero, 0, false
}

func (s *ttlStore[V]) put(key string, value V) {
	s.mu.Lock()
	s.entries[key] = ttlEntry[V]{value: value, stored: s.now()}
	s.mu.Unlock()
}

func (s *ttlStore[V]) stats() (hits, misses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses
}
