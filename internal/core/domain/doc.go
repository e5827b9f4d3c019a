// Package domain defines the core business entities for pokedex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Pokemon: A creature returned by the upstream query API
//   - Sprites: The normalised sprite metadata of a Pokemon
//   - RetrievalState: The lifecycle of a lookup for one search term
//   - AppSettings: Typed application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
