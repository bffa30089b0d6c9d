// Package memory provides an in-memory durable medium used for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jobtracker/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain medium interface.
var _ domain.Medium = (*Store)(nil)

// Driver is the name reported by Store.Driver.
const Driver = "memory"

// Snapshot captures a point-in-time clone of every stored payload.
type Snapshot map[string][]byte

// Store keeps payloads in process memory.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

// NewStore returns an empty in-memory medium.
func NewStore() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Read returns a copy of the payload stored at key.
func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("memory %s: %w", key, domain.ErrKeyNotFound)
	}
	return cloneBytes(v), nil
}

// Write stores a copy of payload at key.
func (s *Store) Write(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = cloneBytes(payload)
	s.writes++
	return nil
}

// Driver returns the medium identifier.
func (s *Store) Driver() string { return Driver }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Writes reports how many writes the store has accepted.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Keys returns the stored keys in ascending order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExportState clones the current payloads.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Snapshot, len(s.values))
	for k, v := range s.values {
		out[k] = cloneBytes(v)
	}
	return out
}

// ImportState replaces every payload with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string][]byte, len(snapshot))
	for k, v := range snapshot {
		s.values[k] = cloneBytes(v)
	}
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return []byte{}
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
