package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/pokedex/internal/core/domain"
)

// --- Mock implementations ---

// mockFetcher implements driven.PokemonFetcher for testing.
type mockFetcher struct {
	FetchFunc       func(ctx context.Context, name string) (domain.Pokemon, error)
	FetchSpriteFunc func(ctx context.Context, url string) ([]byte, error)
	PingFunc        func(ctx context.Context) error

	fetchCalls  atomic.Int32
	spriteCalls atomic.Int32

	mu    sync.Mutex
	names []string
}

func (m *mockFetcher) Fetch(ctx context.Context, name string) (domain.Pokemon, error) {
	m.fetchCalls.Add(1)
	m.mu.Lock()
	m.names = append(m.names, name)
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, name)
	}
	return dex(name)
}

func (m *mockFetcher) FetchSprite(ctx context.Context, url string) ([]byte, error) {
	m.spriteCalls.Add(1)
	if m.FetchSpriteFunc != nil {
		return m.FetchSpriteFunc(ctx, url)
	}
	return []byte("png:" + url), nil
}

func (m *mockFetcher) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *mockFetcher) fetchedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...)
}

// dex is a tiny fixed upstream.
func dex(name string) (domain.Pokemon, error) {
	switch name {
	case "pikachu":
		return domain.Pokemon{ID: 25, Name: "pikachu", Sprites: domain.Sprites{FrontDefault: "https://img/25.png"}}, nil
	case "charmander":
		return domain.Pokemon{ID: 4, Name: "charmander", Sprites: domain.Sprites{FrontDefault: "https://img/4.png"}}, nil
	case "bulbasaur":
		return domain.Pokemon{ID: 1, Name: "bulbasaur"}, nil
	default:
		return domain.Pokemon{}, domain.ErrPokemonNotFound
	}
}
