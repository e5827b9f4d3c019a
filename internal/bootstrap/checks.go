package bootstrap

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pokedex/internal/adapters/driven/pokeapi"
	"github.com/custodia-labs/pokedex/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/pokedex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/cli"
	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
)

func configCheck(settings driving.SettingsService, path string) cli.Check {
	return cli.Check{
		Name: "config",
		Run: func(context.Context) (string, error) {
			if err := settings.Validate(); err != nil {
				return "", err
			}
			return "valid (" + path + ")", nil
		},
	}
}

func endpointCheck(client *pokeapi.Client) cli.Check {
	return cli.Check{
		Name: "endpoint",
		Run: func(ctx context.Context) (string, error) {
			if err := client.Ping(ctx); err != nil {
				return "", err
			}
			return "reachable at " + client.URL(), nil
		},
	}
}

func memoryCheck() cli.Check {
	return cli.Check{
		Name: "cache",
		Run: func(context.Context) (string, error) {
			return domain.CacheBackendMemory.Description(), nil
		},
	}
}

// sqliteCheck prunes expired rows as a side effect.
func sqliteCheck(s *sqlite.Store) cli.Check {
	return cli.Check{
		Name: "cache",
		Run: func(ctx context.Context) (string, error) {
			version, err := s.SchemaVersion(ctx)
			if err != nil {
				return "", err
			}
			pruned, err := s.PruneExpired(ctx)
			if err != nil {
				return "", err
			}
			rows, err := s.Count(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("sqlite schema v%d, %d rows, %d expired pruned (%s)", version, rows, pruned, s.Path()), nil
		},
	}
}

func redisCheck(s *redis.Store, addr string) cli.Check {
	return cli.Check{
		Name: "cache",
		Run: func(ctx context.Context) (string, error) {
			if err := s.Ping(ctx); err != nil {
				return "", fmt.Errorf("redis at %s: %w", addr, err)
			}
			return "redis at " + addr, nil
		},
	}
}
