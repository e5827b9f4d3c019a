// Package pokeapi provides a PokemonFetcher adapter for the PokeAPI
// GraphQL endpoint.
//
// Requests are plain HTTP POSTs carrying a JSON body of the form
// {"query": ..., "variables": {...}}. Every request passes through a
// token-bucket rate limiter, and a 429 response pushes the limiter into
// a backoff period taken from the Retry-After header.
//
// The sprites column is returned either as a JSON object or as a string
// holding serialised JSON, depending on the API version. Both forms are
// decoded; a missing or null front_default yields an empty URL.
package pokeapi
