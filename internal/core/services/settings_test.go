package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pokedex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pokedex/internal/core/domain"
)

func newTestSettings(values map[string]any, env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStoreWith(values)
	svc := NewSettingsService(store)
	svc.getenv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newTestSettings(nil, nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.Equal(t, svc.GetDefaults(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{
		"api.url":                 "http://localhost:8080/v1/graphql",
		"api.timeout_seconds":     int64(3),
		"api.requests_per_second": 1.5,
		"api.burst":               int64(2),
		"lookup.default_term":     "eevee",
		"cache.stale_seconds":     int64(0),
		"cache.gc_seconds":        int64(60),
		"cache.max_entries":       int64(16),
		"cache.backend":           "sqlite",
		"cache.redis_addr":        "redis:6379",
		"ui.render_sprites":       false,
	}, nil)

	s, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1/graphql", s.API.URL)
	assert.Equal(t, 3*time.Second, s.API.Timeout)
	assert.InDelta(t, 1.5, s.API.RequestsPerSecond, 0.0001)
	assert.Equal(t, 2, s.API.Burst)
	assert.Equal(t, "eevee", s.Lookup.DefaultTerm)
	assert.Zero(t, s.Cache.StaleAfter, "zero staleness is allowed")
	assert.Equal(t, time.Minute, s.Cache.GCAfter)
	assert.Equal(t, 16, s.Cache.MaxEntries)
	assert.Equal(t, domain.CacheBackendSQLite, s.Cache.Backend)
	assert.Equal(t, "redis:6379", s.Cache.RedisAddr)
	assert.False(t, s.UI.RenderSprites)
	assert.NoError(t, svc.Validate())
}

func TestSettingsService_Get_IntegerRate(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{"api.requests_per_second": int64(7)}, nil)

	s, err := svc.Get()
	require.NoError(t, err)
	assert.InDelta(t, 7.0, s.API.RequestsPerSecond, 0.0001)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{
		"cache.backend":           "memcached",
		"api.requests_per_second": "fast",
		"cache.max_entries":       int64(-1),
	}, nil)

	s, err := svc.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Cache.Backend, s.Cache.Backend)
	assert.InDelta(t, defaults.API.RequestsPerSecond, s.API.RequestsPerSecond, 0.0001)
	assert.Equal(t, defaults.Cache.MaxEntries, s.Cache.MaxEntries)
}

func TestSettingsService_Get_EnvOverridesURL(t *testing.T) {
	svc, _ := newTestSettings(
		map[string]any{"api.url": "http://from-config/graphql"},
		map[string]string{EnvAPIURL: " http://from-env/graphql "},
	)

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env/graphql", s.API.URL)

	v, err := svc.Value("api.url")
	require.NoError(t, err)
	assert.Equal(t, "http://from-env/graphql", v)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	svc, store := newTestSettings(nil, nil)

	settings := domain.DefaultAppSettings()
	settings.API.URL = "https://example.test/graphql"
	settings.API.Timeout = 20 * time.Second
	settings.Cache.Backend = domain.CacheBackendRedis
	settings.UI.RenderSprites = false

	require.NoError(t, svc.Save(&settings))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
	assert.Equal(t, 20, store.GetInt("api.timeout_seconds"))
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	svc, store := newTestSettings(nil, nil)

	settings := domain.DefaultAppSettings()
	settings.Cache.MaxEntries = 0

	err := svc.Save(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, ok := store.Get("cache.max_entries")
	assert.False(t, ok, "nothing is written when validation fails")

	assert.ErrorIs(t, svc.Save(nil), domain.ErrInvalidInput)
}

func TestSettingsService_SetAPIURL(t *testing.T) {
	svc, store := newTestSettings(nil, nil)

	require.NoError(t, svc.SetAPIURL("http://localhost:8080/graphql"))
	assert.Equal(t, "http://localhost:8080/graphql", store.GetString("api.url"))

	for _, bad := range []string{"", "not a url", "ftp://host/graphql", "/relative"} {
		assert.ErrorIs(t, svc.SetAPIURL(bad), domain.ErrInvalidInput, bad)
	}
}

func TestSettingsService_SetDefaultTerm(t *testing.T) {
	svc, store := newTestSettings(nil, nil)

	require.NoError(t, svc.SetDefaultTerm("  Charmander "))
	assert.Equal(t, "charmander", store.GetString("lookup.default_term"))

	assert.ErrorIs(t, svc.SetDefaultTerm("  "), domain.ErrInvalidInput)
}

func TestSettingsService_SetCacheBackend(t *testing.T) {
	svc, store := newTestSettings(nil, nil)

	require.NoError(t, svc.SetCacheBackend(domain.CacheBackendSQLite))
	assert.Equal(t, "sqlite", store.GetString("cache.backend"))

	assert.ErrorIs(t, svc.SetCacheBackend("memcached"), domain.ErrUnsupportedType)
}

func TestSettingsService_Keys(t *testing.T) {
	svc, _ := newTestSettings(nil, nil)

	keys := svc.Keys()
	assert.Len(t, keys, 11)
	assert.Equal(t, "api.url", keys[0])

	for _, k := range keys {
		_, err := svc.Value(k)
		assert.NoError(t, err, k)
	}

	keys[0] = "mutated"
	assert.Equal(t, "api.url", svc.Keys()[0])
}

func TestSettingsService_Value(t *testing.T) {
	svc, _ := newTestSettings(nil, nil)

	tests := map[string]string{
		"api.url":                 domain.DefaultAPIURL,
		"api.timeout_seconds":     "15",
		"api.requests_per_second": "5",
		"api.burst":               "10",
		"lookup.default_term":     "pikachu",
		"cache.stale_seconds":     "300",
		"cache.gc_seconds":        "1800",
		"cache.max_entries":       "256",
		"cache.backend":           "memory",
		"cache.redis_addr":        "localhost:6379",
		"ui.render_sprites":       "true",
	}
	for key, want := range tests {
		got, err := svc.Value(key)
		require.NoError(t, err, key)
		assert.Equal(t, want, got, key)
	}

	_, err := svc.Value("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsService_SetValue(t *testing.T) {
	svc, _ := newTestSettings(nil, nil)

	valid := map[string]string{
		"api.url":                 "https://example.test/graphql",
		"api.timeout_seconds":     "30",
		"api.requests_per_second": "2.5",
		"api.burst":               "4",
		"lookup.default_term":     "Eevee",
		"cache.stale_seconds":     "0",
		"cache.gc_seconds":        "600",
		"cache.max_entries":       "64",
		"cache.backend":           "Redis",
		"cache.redis_addr":        "cache:6379",
		"ui.render_sprites":       "false",
	}
	for key, raw := range valid {
		require.NoError(t, svc.SetValue(key, raw), key)
	}

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, s.API.Timeout)
	assert.InDelta(t, 2.5, s.API.RequestsPerSecond, 0.0001)
	assert.Equal(t, "eevee", s.Lookup.DefaultTerm)
	assert.Zero(t, s.Cache.StaleAfter)
	assert.Equal(t, domain.CacheBackendRedis, s.Cache.Backend)
	assert.False(t, s.UI.RenderSprites)
}

func TestSettingsService_SetValue_Invalid(t *testing.T) {
	svc, _ := newTestSettings(nil, nil)

	tests := []struct {
		key, raw string
		err      error
	}{
		{"api.timeout_seconds", "0", domain.ErrInvalidInput},
		{"api.timeout_seconds", "abc", domain.ErrInvalidInput},
		{"cache.stale_seconds", "-1", domain.ErrInvalidInput},
		{"api.requests_per_second", "0", domain.ErrInvalidInput},
		{"ui.render_sprites", "maybe", domain.ErrInvalidInput},
		{"cache.redis_addr", "", domain.ErrInvalidInput},
		{"cache.backend", "memcached", domain.ErrUnsupportedType},
		{"unknown.key", "x", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			assert.ErrorIs(t, svc.SetValue(tt.key, tt.raw), tt.err)
		})
	}
}

func TestSettingsService_Validate_BadURL(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{"api.url": "nonsense"}, nil)
	assert.ErrorIs(t, svc.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_Watch(t *testing.T) {
	svc, _ := newTestSettings(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	require.Eventually(t, func() bool {
		require.NoError(t, svc.SetDefaultTerm("eevee"))
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
