package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
)

// mockLookupService is a mock implementation of driving.LookupService.
type mockLookupService struct {
	dex           map[string]domain.Pokemon
	cached        bool
	err           error
	invalidateErr error
	invalidated   []string
	stats         driving.CacheStats
}

func newMockLookup() *mockLookupService {
	return &mockLookupService{
		dex: map[string]domain.Pokemon{
			"pikachu": {
				ID:      25,
				Name:    "pikachu",
				Sprites: domain.Sprites{FrontDefault: "https://example.test/25.png"},
			},
		},
	}
}

func (m *mockLookupService) Lookup(_ context.Context, term string) (driving.LookupResult, error) {
	if m.err != nil {
		return driving.LookupResult{}, m.err
	}
	key := domain.NormaliseTerm(term)
	if key == "" {
		return driving.LookupResult{}, domain.ErrInvalidInput
	}
	p, ok := m.dex[key]
	if !ok {
		return driving.LookupResult{}, domain.ErrPokemonNotFound
	}
	return driving.LookupResult{Pokemon: p, Cached: m.cached}, nil
}

func (m *mockLookupService) Cached(string) (domain.Pokemon, bool) {
	return domain.Pokemon{}, false
}

func (m *mockLookupService) Invalidate(_ context.Context, term string) error {
	if m.invalidateErr != nil {
		return m.invalidateErr
	}
	m.invalidated = append(m.invalidated, term)
	return nil
}

func (m *mockLookupService) Sprite(context.Context, string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (m *mockLookupService) Stats() driving.CacheStats {
	return m.stats
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	values map[string]string
	keys   []string
	err    error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, m.err
}

func (m *mockSettingsService) Save(*domain.AppSettings) error            { return m.err }
func (m *mockSettingsService) SetAPIURL(string) error                    { return m.err }
func (m *mockSettingsService) SetDefaultTerm(string) error               { return m.err }
func (m *mockSettingsService) SetCacheBackend(domain.CacheBackend) error { return m.err }
func (m *mockSettingsService) Validate() error                           { return m.err }
func (m *mockSettingsService) Keys() []string                            { return m.keys }
func (m *mockSettingsService) SetValue(string, string) error             { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Value(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[key], nil
}

func (m *mockSettingsService) Watch(ctx context.Context, _ func()) error {
	<-ctx.Done()
	return nil
}

var (
	_ driving.LookupService   = (*mockLookupService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)
