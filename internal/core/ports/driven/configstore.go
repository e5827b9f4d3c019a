package driven

import "context"

// ConfigStore is flat key/value configuration addressed in dot notation
// ("cache.backend"). Typed getters return the zero value when a key is
// missing or holds another type; SettingsService layers defaults on top.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current values to the backing file.
	Save() error

	// Load replaces the current values with the backing file's contents.
	Load() error

	// Path locates the backing file.
	Path() string

	// Watch reloads the configuration whenever it changes outside this
	// process and calls onChange after each successful reload.
	// Blocks until ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error
}
