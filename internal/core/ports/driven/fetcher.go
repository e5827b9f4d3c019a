package driven

import (
	"context"

	"github.com/custodia-labs/pokedex/internal/core/domain"
)

// PokemonFetcher retrieves creature records from the upstream API.
type PokemonFetcher interface {
	// Fetch looks up a creature by exact name.
	// The name is lowercased before it is sent.
	// Returns domain.ErrPokemonNotFound when the API has no match,
	// domain.ErrTransport for network or HTTP failures and
	// domain.ErrMalformedResponse when the body cannot be decoded.
	Fetch(ctx context.Context, name string) (domain.Pokemon, error)

	// FetchSprite downloads the image bytes behind a sprite URL.
	FetchSprite(ctx context.Context, url string) ([]byte, error)

	// Ping checks the endpoint is reachable and answers GraphQL.
	Ping(ctx context.Context) error
}
