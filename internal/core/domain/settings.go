package domain

import "time"

const unknownDescription = "Unknown"

// DefaultAPIURL is the public PokeAPI GraphQL endpoint.
const DefaultAPIURL = "https://beta.pokeapi.co/graphql/v1beta"

// DefaultTerm is the search term committed when the UI starts.
const DefaultTerm = "pikachu"

// CacheBackend identifies the second-tier result store.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendMemory keeps results in process memory only.
	CacheBackendMemory CacheBackend = "memory"

	// CacheBackendSQLite persists results to a local SQLite database.
	CacheBackendSQLite CacheBackend = "sqlite"

	// CacheBackendRedis shares results through a Redis server.
	CacheBackendRedis CacheBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendMemory, CacheBackendSQLite, CacheBackendRedis:
		return true
	default:
		return false
	}
}

// IsPersistent returns true if results survive a process restart.
func (b CacheBackend) IsPersistent() bool {
	return b == CacheBackendSQLite || b == CacheBackendRedis
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b CacheBackend) Description() string {
	switch b {
	case CacheBackendMemory:
		return "Memory (per process)"
	case CacheBackendSQLite:
		return "SQLite (local disk)"
	case CacheBackendRedis:
		return "Redis (shared)"
	default:
		return unknownDescription
	}
}

// AllCacheBackends returns all available cache backends.
func AllCacheBackends() []CacheBackend {
	return []CacheBackend{
		CacheBackendMemory,
		CacheBackendSQLite,
		CacheBackendRedis,
	}
}

// APISettings configures the upstream query API.
type APISettings struct {
	// URL is the GraphQL endpoint.
	URL string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RequestsPerSecond is the sustained client-side rate limit.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int
}

// LookupSettings configures the lookup screen.
type LookupSettings struct {
	// DefaultTerm is committed when the UI starts.
	DefaultTerm string
}

// CacheSettings configures the request cache.
type CacheSettings struct {
	// StaleAfter is the freshness window; younger results are served
	// without a network call.
	StaleAfter time.Duration

	// GCAfter is how long an entry stays in memory at all.
	GCAfter time.Duration

	// MaxEntries bounds the in-memory cache.
	MaxEntries int

	// Backend selects the second-tier store.
	Backend CacheBackend

	// RedisAddr is the Redis address when Backend is redis.
	RedisAddr string
}

// UISettings configures the terminal UI.
type UISettings struct {
	// RenderSprites downloads and draws sprites with half-block characters.
	RenderSprites bool
}

// AppSettings holds all application configuration.
type AppSettings struct {
	API    APISettings
	Lookup LookupSettings
	Cache  CacheSettings
	UI     UISettings
}

// Validate checks settings for values the application cannot run with.
func (s AppSettings) Validate() error {
	if s.API.URL == "" {
		return ErrInvalidInput
	}
	if s.API.Timeout <= 0 || s.API.RequestsPerSecond <= 0 || s.API.Burst <= 0 {
		return ErrInvalidInput
	}
	if s.Cache.MaxEntries <= 0 || s.Cache.StaleAfter < 0 || s.Cache.GCAfter < s.Cache.StaleAfter {
		return ErrInvalidInput
	}
	if !s.Cache.Backend.IsValid() {
		return ErrUnsupportedType
	}
	return nil
}

// DefaultAppSettings returns sensible defaults for all settings.
// Nothing is persisted with the defaults: the cache backend is memory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			URL:               DefaultAPIURL,
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Lookup: LookupSettings{
			DefaultTerm: DefaultTerm,
		},
		Cache: CacheSettings{
			StaleAfter: 5 * time.Minute,
			GCAfter:    30 * time.Minute,
			MaxEntries: 256,
			Backend:    CacheBackendMemory,
			RedisAddr:  "localhost:6379",
		},
		UI: UISettings{
			RenderSprites: true,
		},
	}
}
