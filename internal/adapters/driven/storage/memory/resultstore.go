package memory

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driven"
)

// DefaultCapacity bounds a ResultStore created with a non-positive capacity.
const DefaultCapacity = 256

// Ensure ResultStore implements the interface.
var _ driven.ResultStore = (*ResultStore)(nil)

type storedResult struct {
	value     domain.CachedPokemon
	expiresAt time.Time
}

// ResultStore keeps up to a fixed number of lookup results, evicting the
// least recently used. Nothing survives a restart.
type ResultStore struct {
	mu      sync.Mutex
	results *lru.Cache[string, storedResult]
	now     func() time.Time
}

// NewResultStore creates a new in-memory result store holding at most
// capacity results.
func NewResultStore(capacity int) *ResultStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// lru.New only fails for a non-positive size.
	results, _ := lru.New[string, storedResult](capacity)
	return &ResultStore{
		results: results,
		now:     time.Now,
	}
}

// Get returns the stored result for key.
func (s *ResultStore) Get(_ context.Context, key string) (*domain.CachedPokemon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.results.Get(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !r.expiresAt.IsZero() && !s.now().Before(r.expiresAt) {
		s.results.Remove(key)
		return nil, domain.ErrNotFound
	}
	v := r.value
	return &v, nil
}

// Put stores value for key. ttl <= 0 means no expiry.
func (s *ResultStore) Put(_ context.Context, key string, value domain.CachedPokemon, ttl time.Duration) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	r := storedResult{value: value}
	if ttl > 0 {
		r.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.Add(key, r)
	return nil
}

// Delete removes key.
func (s *ResultStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.Remove(key)
	return nil
}

// Len returns the number of stored results, including expired ones not
// yet read.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results.Len()
}

// Close is a no-op for the memory store.
func (s *ResultStore) Close() error {
	return nil
}
