package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pokedex/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func pikachu(fetchedAt time.Time) domain.CachedPokemon {
	return domain.CachedPokemon{
		Pokemon: domain.Pokemon{
			ID:      25,
			Name:    "pikachu",
			Sprites: domain.Sprites{FrontDefault: "https://img/25.png"},
		},
		FetchedAt: fetchedAt,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "pikachu", pikachu(now), 0))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "pikachu")
	require.NoError(t, err)
	assert.Equal(t, 25, got.ID)

	version, err := second.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version, "migrations must not be re-applied")
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Date(2024, 5, 1, 10, 30, 0, 123456789, time.UTC)

	require.NoError(t, store.Put(ctx, "pikachu", pikachu(now), time.Hour))

	got, err := store.Get(ctx, "pikachu")
	require.NoError(t, err)
	assert.Equal(t, 25, got.ID)
	assert.Equal(t, "pikachu", got.Name)
	assert.Equal(t, "https://img/25.png", got.SpriteURL())
	assert.True(t, now.Equal(got.FetchedAt))
}

func TestStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Put_Overwrites(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Now()

	require.NoError(t, store.Put(ctx, "pikachu", pikachu(now), 0))

	updated := pikachu(now)
	updated.Sprites.FrontDefault = "https://img/25-new.png"
	require.NoError(t, store.Put(ctx, "pikachu", updated, 0))

	got, err := store.Get(ctx, "pikachu")
	require.NoError(t, err)
	assert.Equal(t, "https://img/25-new.png", got.SpriteURL())

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_Put_EmptyTerm(t *testing.T) {
	store := setupTestStore(t)
	err := store.Put(context.Background(), "", pikachu(time.Now()), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "pikachu", pikachu(now), time.Minute))
	require.NoError(t, store.Put(ctx, "charmander", pikachu(now), 0))

	_, err := store.Get(ctx, "pikachu")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "pikachu")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Get(ctx, "charmander")
	assert.NoError(t, err, "rows without ttl never expire")

	removed, err := store.PruneExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Put(ctx, "pikachu", pikachu(time.Now()), 0))
	require.NoError(t, store.Delete(ctx, "pikachu"))

	_, err := store.Get(ctx, "pikachu")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "pikachu"), "deleting a missing key is not an error")
}
