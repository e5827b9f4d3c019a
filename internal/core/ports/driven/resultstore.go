package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/pokedex/internal/core/domain"
)

// ResultStore persists successful lookups keyed by normalised term.
// Failed lookups are never stored.
type ResultStore interface {
	// Get returns the stored result for key.
	// Returns domain.ErrNotFound when nothing is stored.
	Get(ctx context.Context, key string) (*domain.CachedPokemon, error)

	// Put stores a result. ttl <= 0 means no expiry.
	Put(ctx context.Context, key string, value domain.CachedPokemon, ttl time.Duration) error

	// Delete removes a stored result. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying connection.
	Close() error
}
