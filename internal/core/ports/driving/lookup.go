package driving

import (
	"context"

	"github.com/custodia-labs/pokedex/internal/core/domain"
)

// LookupResult is a creature together with where it came from.
type LookupResult struct {
	Pokemon domain.Pokemon

	// Cached is true when no network call was needed.
	Cached bool
}

// CacheStats reports query cache counters.
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Loads   uint64 `json:"loads"`
	Shared  uint64 `json:"shared"`
}

// LookupService resolves search terms to creatures.
type LookupService interface {
	// Lookup resolves term, serving a fresh cached result when one exists.
	// Concurrent lookups for the same term share one network call.
	Lookup(ctx context.Context, term string) (LookupResult, error)

	// Cached returns a fresh cached result without touching the network.
	Cached(term string) (domain.Pokemon, bool)

	// Invalidate marks the cached result for term stale so the next
	// Lookup refetches it.
	Invalidate(ctx context.Context, term string) error

	// Sprite returns the image bytes for a sprite URL.
	Sprite(ctx context.Context, url string) ([]byte, error)

	// Stats returns cache counters.
	Stats() CacheStats
}
