// Package redis provides a Redis-backed ResultStore so several pokedex
// processes (for example the TUI and an MCP server) can share lookups.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driven"
)

// DefaultKeyPrefix namespaces every key written by the store.
const DefaultKeyPrefix = "pokedex:result:"

var _ driven.ResultStore = (*Store)(nil)

// Config holds the configuration for the Redis client.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// record is the JSON value stored under each key.
type record struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	SpriteURL string    `json:"sprite_url"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store is a ResultStore backed by Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
	logger zerolog.Logger
}

// NewStore connects to Redis and pings it before returning.
func NewStore(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Debug().Str("redis_address", cfg.Addr).Msg("connected to redis")
	return NewStoreWithClient(client, cfg.KeyPrefix, logger), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client redis.UniversalClient, prefix string, logger zerolog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("component", "redis").Logger(),
	}
}

// Get returns the stored result for key.
func (s *Store) Get(ctx context.Context, key string) (*domain.CachedPokemon, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	cached, err := decode(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable value")
		return nil, domain.ErrNotFound
	}
	return cached, nil
}

// Put stores value with the given ttl. ttl <= 0 keeps the key until deleted.
func (s *Store) Put(ctx context.Context, key string, value domain.CachedPokemon, ttl time.Duration) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	data, err := encode(value)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func encode(v domain.CachedPokemon) ([]byte, error) {
	data, err := json.Marshal(record{
		ID:        v.ID,
		Name:      v.Name,
		SpriteURL: v.SpriteURL(),
		FetchedAt: v.FetchedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*domain.CachedPokemon, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &domain.CachedPokemon{
		Pokemon: domain.Pokemon{
			ID:      r.ID,
			Name:    r.Name,
			Sprites: domain.Sprites{FrontDefault: r.SpriteURL},
		},
		FetchedAt: r.FetchedAt,
	}, nil
}
