// Package memstore is an in-process key-value store for tests and
// throwaway sessions.
package memstore

import (
	"context"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

func New() *Store { return &Store{values: map[string]string{}} }

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

// Writes counts Set calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) Close() error { return nil }
