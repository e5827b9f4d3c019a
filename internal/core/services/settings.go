package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driven"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvAPIURL overrides api.url when set.
const EnvAPIURL = "POKEDEX_API_URL"

// Config keys for settings storage.
const (
	keyAPIURL         = "api.url"
	keyAPITimeout     = "api.timeout_seconds"
	keyAPIRate        = "api.requests_per_second"
	keyAPIBurst       = "api.burst"
	keyDefaultTerm    = "lookup.default_term"
	keyCacheStale     = "cache.stale_seconds"
	keyCacheGC        = "cache.gc_seconds"
	keyCacheMax       = "cache.max_entries"
	keyCacheBackend   = "cache.backend"
	keyCacheRedisAddr = "cache.redis_addr"
	keyRenderSprites  = "ui.render_sprites"
)

// settingKeys is the display order used by Keys.
var settingKeys = []string{
	keyAPIURL,
	keyAPITimeout,
	keyAPIRate,
	keyAPIBurst,
	keyDefaultTerm,
	keyCacheStale,
	keyCacheGC,
	keyCacheMax,
	keyCacheBackend,
	keyCacheRedisAddr,
	keyRenderSprites,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.LookupEnv,
	}
}

// Get retrieves current application settings. Missing or mistyped
// values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			URL:               s.getString(keyAPIURL, defaults.API.URL),
			Timeout:           s.getSeconds(keyAPITimeout, defaults.API.Timeout),
			RequestsPerSecond: s.getFloat(keyAPIRate, defaults.API.RequestsPerSecond),
			Burst:             s.getInt(keyAPIBurst, defaults.API.Burst),
		},
		Lookup: domain.LookupSettings{
			DefaultTerm: s.getString(keyDefaultTerm, defaults.Lookup.DefaultTerm),
		},
		Cache: domain.CacheSettings{
			StaleAfter: s.getSeconds(keyCacheStale, defaults.Cache.StaleAfter),
			GCAfter:    s.getSeconds(keyCacheGC, defaults.Cache.GCAfter),
			MaxEntries: s.getInt(keyCacheMax, defaults.Cache.MaxEntries),
			Backend:    s.getBackend(defaults.Cache.Backend),
			RedisAddr:  s.getString(keyCacheRedisAddr, defaults.Cache.RedisAddr),
		},
		UI: domain.UISettings{
			RenderSprites: s.getBool(keyRenderSprites, defaults.UI.RenderSprites),
		},
	}

	if v, ok := s.getenv(EnvAPIURL); ok && strings.TrimSpace(v) != "" {
		settings.API.URL = strings.TrimSpace(v)
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyAPIURL, settings.API.URL},
		{keyAPITimeout, int(settings.API.Timeout / time.Second)},
		{keyAPIRate, settings.API.RequestsPerSecond},
		{keyAPIBurst, settings.API.Burst},
		{keyDefaultTerm, settings.Lookup.DefaultTerm},
		{keyCacheStale, int(settings.Cache.StaleAfter / time.Second)},
		{keyCacheGC, int(settings.Cache.GCAfter / time.Second)},
		{keyCacheMax, settings.Cache.MaxEntries},
		{keyCacheBackend, settings.Cache.Backend.String()},
		{keyCacheRedisAddr, settings.Cache.RedisAddr},
		{keyRenderSprites, settings.UI.RenderSprites},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetAPIURL updates the GraphQL endpoint.
func (s *SettingsService) SetAPIURL(raw string) error {
	if err := validateURL(raw); err != nil {
		return err
	}
	return s.configStore.Set(keyAPIURL, strings.TrimSpace(raw))
}

// SetDefaultTerm updates the term committed at startup.
func (s *SettingsService) SetDefaultTerm(term string) error {
	key := domain.NormaliseTerm(term)
	if key == "" {
		return fmt.Errorf("default term: %w", domain.ErrInvalidInput)
	}
	return s.configStore.Set(keyDefaultTerm, key)
}

// SetCacheBackend selects the second-tier result store.
func (s *SettingsService) SetCacheBackend(backend domain.CacheBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("cache backend %q: %w", backend, domain.ErrUnsupportedType)
	}
	return s.configStore.Set(keyCacheBackend, backend.String())
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := validateURL(settings.API.URL); err != nil {
		return err
	}
	return settings.Validate()
}

// Watch forwards to the config store watcher.
func (s *SettingsService) Watch(ctx context.Context, onChange func()) error {
	return s.configStore.Watch(ctx, onChange)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys lists every supported setting key.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Value returns the effective value of key, defaults and env applied.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case keyAPIURL:
		return settings.API.URL, nil
	case keyAPITimeout:
		return strconv.Itoa(int(settings.API.Timeout / time.Second)), nil
	case keyAPIRate:
		return strconv.FormatFloat(settings.API.RequestsPerSecond, 'g', -1, 64), nil
	case keyAPIBurst:
		return strconv.Itoa(settings.API.Burst), nil
	case keyDefaultTerm:
		return settings.Lookup.DefaultTerm, nil
	case keyCacheStale:
		return strconv.Itoa(int(settings.Cache.StaleAfter / time.Second)), nil
	case keyCacheGC:
		return strconv.Itoa(int(settings.Cache.GCAfter / time.Second)), nil
	case keyCacheMax:
		return strconv.Itoa(settings.Cache.MaxEntries), nil
	case keyCacheBackend:
		return settings.Cache.Backend.String(), nil
	case keyCacheRedisAddr:
		return settings.Cache.RedisAddr, nil
	case keyRenderSprites:
		return strconv.FormatBool(settings.UI.RenderSprites), nil
	default:
		return "", fmt.Errorf("unknown setting %q: %w", key, domain.ErrNotFound)
	}
}

// SetValue parses raw according to key's type and stores it.
func (s *SettingsService) SetValue(key, raw string) error {
	raw = strings.TrimSpace(raw)

	switch key {
	case keyAPIURL:
		return s.SetAPIURL(raw)
	case keyDefaultTerm:
		return s.SetDefaultTerm(raw)
	case keyCacheBackend:
		return s.SetCacheBackend(domain.CacheBackend(strings.ToLower(raw)))
	case keyCacheRedisAddr:
		if raw == "" {
			return fmt.Errorf("%s: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, raw)
	case keyAPITimeout, keyAPIBurst, keyCacheStale, keyCacheGC, keyCacheMax:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || (n == 0 && key != keyCacheStale) {
			return fmt.Errorf("%s must be a positive integer: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, n)
	case keyAPIRate:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s must be a positive number: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, f)
	case keyRenderSprites:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, b)
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrNotFound)
	}
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api url %q must be an absolute http(s) URL: %w", raw, domain.ErrInvalidInput)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	secs := s.configStore.GetInt(key)
	if secs < 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	default:
		return defaultVal
	}
	if f <= 0 {
		return defaultVal
	}
	return f
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	val := s.configStore.GetString(keyCacheBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CacheBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
