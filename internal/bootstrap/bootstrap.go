// Package bootstrap assembles the driven adapters and core services the
// command line runs on.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/pokedex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pokedex/internal/adapters/driven/pokeapi"
	"github.com/custodia-labs/pokedex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pokedex/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/pokedex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/cli"
	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driven"
	"github.com/custodia-labs/pokedex/internal/core/services"
	"github.com/custodia-labs/pokedex/internal/logger"
)

// MemoryConfigDir keeps settings in process memory; nothing is read
// from or written to disk.
const MemoryConfigDir = ":memory:"

// Ensure Build satisfies the CLI factory.
var _ cli.Factory = Build

// Build reads settings from configDir and wires the lookup pipeline.
// A result store that cannot be opened leaves Lookup nil and records the
// error in LookupErr so settings commands still work.
func Build(ctx context.Context, configDir string) (*cli.Services, error) {
	logger.Section("Startup")

	store, err := openConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(store)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	logger.Debug("Config: %s", store.Path())

	client := pokeapi.NewClient(pokeapi.Config{
		URL:     settings.API.URL,
		Timeout: settings.API.Timeout,
		RateLimit: pokeapi.RateLimitConfig{
			RequestsPerSecond: settings.API.RequestsPerSecond,
			BurstSize:         settings.API.Burst,
		},
	})
	logger.Debug("Endpoint: %s", client.URL())

	out := &cli.Services{
		Settings:   settingsService,
		ConfigPath: store.Path(),
		Checks: []cli.Check{
			configCheck(settingsService, store.Path()),
			endpointCheck(client),
		},
	}

	results, cacheCheck, err := openResultStore(ctx, settings.Cache, dataDir(configDir))
	if err != nil {
		logger.Warn("Cache backend %s unavailable: %v", settings.Cache.Backend, err)
		out.LookupErr = fmt.Errorf("opening %s cache: %w", settings.Cache.Backend, err)
		return out, nil
	}
	out.Checks = append(out.Checks, cacheCheck)
	out.Close = results.Close

	lookup, err := services.NewLookupService(client, services.LookupOptionsFromSettings(settings.Cache, results))
	if err != nil {
		out.LookupErr = err
		return out, nil
	}
	out.Lookup = lookup

	logger.Info("Cache backend: %s", settings.Cache.Backend.Description())
	return out, nil
}

func openConfigStore(configDir string) (driven.ConfigStore, error) {
	if configDir == MemoryConfigDir {
		return memory.NewConfigStore(), nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return store, nil
}

// dataDir is where persistent caches live. Empty selects the store default.
func dataDir(configDir string) string {
	if configDir == "" || configDir == MemoryConfigDir {
		return ""
	}
	return filepath.Join(configDir, "data")
}

// openResultStore opens the configured second-tier store together with
// the doctor check that inspects it.
func openResultStore(
	ctx context.Context, cfg domain.CacheSettings, dir string,
) (driven.ResultStore, cli.Check, error) {
	switch cfg.Backend {
	case domain.CacheBackendSQLite:
		s, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, cli.Check{}, err
		}
		logger.Debug("SQLite cache: %s", s.Path())
		return s, sqliteCheck(s), nil

	case domain.CacheBackendRedis:
		s, err := redis.NewStore(ctx, redis.Config{Addr: cfg.RedisAddr}, logger.Component("redis"))
		if err != nil {
			return nil, cli.Check{}, err
		}
		return s, redisCheck(s, cfg.RedisAddr), nil

	case domain.CacheBackendMemory, "":
		return memory.NewResultStore(cfg.MaxEntries), memoryCheck(), nil

	default:
		return nil, cli.Check{}, fmt.Errorf("cache backend %q: %w", cfg.Backend, domain.ErrUnsupportedType)
	}
}
