package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driven"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
	"github.com/custodia-labs/pokedex/internal/logger"
	"github.com/custodia-labs/pokedex/internal/querycache"
)

// Ensure LookupService implements the interface.
var _ driving.LookupService = (*LookupService)(nil)

// LookupOptions configures a LookupService.
type LookupOptions struct {
	// StaleAfter is how long a result is served without a network call.
	StaleAfter time.Duration

	// GCAfter is how long a result is kept at all.
	GCAfter time.Duration

	// MaxEntries bounds the in-memory cache.
	MaxEntries int

	// Store is an optional second tier. Nil keeps results in memory only.
	Store driven.ResultStore

	// Now overrides the clock for tests.
	Now func() time.Time
}

// LookupOptionsFromSettings derives options from application settings.
func LookupOptionsFromSettings(s domain.CacheSettings, store driven.ResultStore) LookupOptions {
	return LookupOptions{
		StaleAfter: s.StaleAfter,
		GCAfter:    s.GCAfter,
		MaxEntries: s.MaxEntries,
		Store:      store,
	}
}

// LookupService resolves search terms to creatures through a request cache.
type LookupService struct {
	fetcher driven.PokemonFetcher
	results *querycache.Cache[domain.Pokemon]
	sprites *querycache.Cache[[]byte]
}

// NewLookupService creates a lookup service backed by fetcher.
func NewLookupService(fetcher driven.PokemonFetcher, opts LookupOptions) (*LookupService, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher: %w", domain.ErrInvalidInput)
	}

	log := logger.Component("querycache")
	cacheOpts := querycache.Options{
		StaleTime:  opts.StaleAfter,
		GCTime:     opts.GCAfter,
		MaxEntries: opts.MaxEntries,
		Now:        opts.Now,
		Logger:     &log,
	}

	var store querycache.Store[domain.Pokemon]
	if opts.Store != nil {
		store = &resultStoreBridge{store: opts.Store}
	}

	results, err := querycache.New[domain.Pokemon](fetcher.Fetch, store, cacheOpts)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	// Sprite images never change for a URL; keep them for the GC window.
	spriteOpts := cacheOpts
	spriteOpts.StaleTime = opts.GCAfter
	sprites, err := querycache.New[[]byte](fetcher.FetchSprite, nil, spriteOpts)
	if err != nil {
		return nil, fmt.Errorf("create sprite cache: %w", err)
	}

	return &LookupService{
		fetcher: fetcher,
		results: results,
		sprites: sprites,
	}, nil
}

// Lookup resolves term, serving a fresh cached result when one exists.
func (s *LookupService) Lookup(ctx context.Context, term string) (driving.LookupResult, error) {
	key := domain.NormaliseTerm(term)
	if key == "" {
		return driving.LookupResult{}, fmt.Errorf("empty term: %w", domain.ErrInvalidInput)
	}

	logger.Debug("Lookup: %q", key)
	p, src, err := s.results.Fetch(ctx, key)
	if err != nil {
		logger.Debug("Lookup %q failed: %v", key, err)
		return driving.LookupResult{}, err
	}
	logger.Debug("Lookup %q served from %s", key, src)
	return driving.LookupResult{Pokemon: p, Cached: src.Cached()}, nil
}

// Cached returns a fresh in-memory result without any I/O.
func (s *LookupService) Cached(term string) (domain.Pokemon, bool) {
	key := domain.NormaliseTerm(term)
	if key == "" {
		return domain.Pokemon{}, false
	}
	return s.results.Peek(key)
}

// Invalidate marks term stale in memory and removes it from the store.
func (s *LookupService) Invalidate(ctx context.Context, term string) error {
	key := domain.NormaliseTerm(term)
	if key == "" {
		return nil
	}
	return s.results.Invalidate(ctx, key)
}

// Sprite returns the image bytes for url, memoized per URL.
func (s *LookupService) Sprite(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("sprite url: %w", domain.ErrInvalidInput)
	}
	data, _, err := s.sprites.Fetch(ctx, url)
	return data, err
}

// Stats returns result cache counters.
func (s *LookupService) Stats() driving.CacheStats {
	st := s.results.Stats()
	return driving.CacheStats{
		Entries: st.Entries,
		Hits:    st.Hits,
		Misses:  st.Misses,
		Loads:   st.Loads,
		Shared:  st.Shared,
	}
}

// resultStoreBridge adapts a driven.ResultStore to the cache's Store.
type resultStoreBridge struct {
	store driven.ResultStore
}

func (b *resultStoreBridge) Load(ctx context.Context, key string) (domain.Pokemon, time.Time, bool, error) {
	cached, err := b.store.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Pokemon{}, time.Time{}, false, nil
	}
	if err != nil {
		return domain.Pokemon{}, time.Time{}, false, err
	}
	return cached.Pokemon, cached.FetchedAt, true, nil
}

func (b *resultStoreBridge) Save(ctx context.Context, key string, p domain.Pokemon, fetchedAt time.Time, ttl time.Duration) error {
	return b.store.Put(ctx, key, domain.CachedPokemon{Pokemon: p, FetchedAt: fetchedAt}, ttl)
}

func (b *resultStoreBridge) Delete(ctx context.Context, key string) error {
	return b.store.Delete(ctx, key)
}
