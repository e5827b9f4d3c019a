// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PokemonFetcher: Queries the upstream GraphQL API (PokeAPI)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ResultStore: Second-tier store for lookup results (SQLite, Redis).
//     Without it, results live only in the in-process cache.
package driven
