// Package catalog holds the last-fetched product set and the thin fetch
// service that replaces it. The store is replace-on-fetch only: snapshots are
// never patched in place, and whichever fetch completes last wins.
package catalog

import (
	"sync"

	"github.com/qkart/qkart/internal/api"
)

// Store holds the current catalog snapshot plus the no-results indicator a
// zero-match search sets. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	products  []api.Product
	noResults bool
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs a new catalog snapshot and clears the no-results state.
func (s *Store) Replace(products []api.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.noResults = false
}

// ReplaceEmpty installs an empty snapshot and marks the no-results state.
// Used when a search succeeds with zero matches; distinct from a failure,
// which leaves the store untouched.
func (s *Store) ReplaceEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.noResults = true
}

// Snapshot returns a copy of the current catalog. Callers may hold on to it
// across later replacements without seeing them.
func (s *Store) Snapshot() []api.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]api.Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}

// NoResults reports whether the current snapshot is the empty outcome of a
// zero-match search.
func (s *Store) NoResults() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.noResults
}
