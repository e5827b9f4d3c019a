package domain

import (
	"strconv"
	"strings"
	"time"
)

// Pokemon is a creature returned by a lookup.
type Pokemon struct {
	// ID is the national dex number.
	ID int `json:"id"`

	// Name is the lowercase creature name as stored upstream.
	Name string `json:"name"`

	// Sprites holds the normalised sprite metadata.
	Sprites Sprites `json:"sprites"`
}

// Sprites is the normalised form of the upstream sprite field, which
// arrives either as an object or as a JSON-encoded string.
type Sprites struct {
	// FrontDefault is the URL of the default front-facing sprite.
	// Empty when the upstream has no sprite for the creature.
	FrontDefault string `json:"front_default"`
}

// SpriteURL returns the URL used to render the creature's image.
func (p Pokemon) SpriteURL() string {
	return p.Sprites.FrontDefault
}

// DisplayName returns the name as shown in result panels.
func (p Pokemon) DisplayName() string {
	return strings.ToUpper(p.Name)
}

// Tag returns the identifier label, e.g. "#25".
func (p Pokemon) Tag() string {
	return "#" + strconv.Itoa(p.ID)
}

// Matches reports whether term names this creature, ignoring case and
// surrounding whitespace.
func (p Pokemon) Matches(term string) bool {
	return strings.EqualFold(p.Name, strings.TrimSpace(term))
}

// CachedPokemon is a lookup result as persisted by a result store.
type CachedPokemon struct {
	Pokemon   `json:"pokemon"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NormaliseTerm converts a user-entered search term into the key used
// for caching and for the query variable.
func NormaliseTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
