package domain

import "errors"

// NotFoundMessage is shown to the user when a lookup matches no creature.
const NotFoundMessage = "Pokémon not found!"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist in a store.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown cache backend or similar enum value.
	ErrUnsupportedType = errors.New("unsupported type")

	// Lookup Errors.

	// ErrPokemonNotFound indicates the query API returned no matching creature.
	// Its message is the fixed text displayed to the user.
	ErrPokemonNotFound = errors.New(NotFoundMessage)

	// ErrTransport indicates the request never produced a usable HTTP response:
	// dial failures, timeouts and non-2xx status codes.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse indicates the response body could not be parsed
	// or the query API rejected the query document.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
