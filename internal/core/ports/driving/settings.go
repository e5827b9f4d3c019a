package driving

import (
	"context"

	"github.com/custodia-labs/pokedex/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAPIURL updates the GraphQL endpoint.
	SetAPIURL(url string) error

	// SetDefaultTerm updates the term committed at startup.
	SetDefaultTerm(term string) error

	// SetCacheBackend selects the second-tier result store.
	SetCacheBackend(backend domain.CacheBackend) error

	// Validate checks the stored settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys lists every supported setting key in display order.
	Keys() []string

	// Value returns the effective value of a key as a string.
	Value(key string) (string, error)

	// SetValue parses raw according to the key's type and stores it.
	SetValue(key, raw string) error

	// Watch calls onChange after the stored settings change on disk.
	// It blocks until ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error
}
