package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pokedex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driven"
)

// DatabaseFile is the file name created inside the data directory.
const DatabaseFile = "results.db"

// timeFormat is fixed-width so stored timestamps compare lexicographically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

var _ driven.ResultStore = (*Store)(nil)

// Store is a SQLite-backed result store.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pokedex/data/results.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pokedex", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the stored result for term.
// Expired rows are treated as missing.
func (s *Store) Get(ctx context.Context, term string) (*domain.CachedPokemon, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT pokemon_id, name, sprite_url, fetched_at, expires_at
		FROM lookup_results WHERE term = ?
	`, term)

	var cached domain.CachedPokemon
	var fetchedAt string
	var expiresAt sql.NullString
	if err := row.Scan(&cached.ID, &cached.Name, &cached.Sprites.FrontDefault, &fetchedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning result: %w", err)
	}

	if exp := parseNullableTime(expiresAt); exp != nil && !s.now().Before(*exp) {
		return nil, domain.ErrNotFound
	}

	t, err := time.Parse(timeFormat, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched_at: %w", err)
	}
	cached.FetchedAt = t
	return &cached, nil
}

// Put stores or replaces the result for term.
func (s *Store) Put(ctx context.Context, term string, value domain.CachedPokemon, ttl time.Duration) error {
	if term == "" {
		return domain.ErrInvalidInput
	}

	var expiresAt sql.NullString
	if ttl > 0 {
		expiresAt = sql.NullString{String: s.now().Add(ttl).UTC().Format(timeFormat), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lookup_results (term, pokemon_id, name, sprite_url, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(term) DO UPDATE SET
			pokemon_id = excluded.pokemon_id,
			name = excluded.name,
			sprite_url = excluded.sprite_url,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at
	`, term, value.ID, value.Name, value.SpriteURL(),
		value.FetchedAt.UTC().Format(timeFormat), expiresAt)
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

// Delete removes the result for term.
func (s *Store) Delete(ctx context.Context, term string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM lookup_results WHERE term = ?", term); err != nil {
		return fmt.Errorf("deleting result: %w", err)
	}
	return nil
}

// PruneExpired deletes every expired row and returns how many were removed.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM lookup_results
		WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, s.now().UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("pruning results: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored rows, expired or not.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lookup_results").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting results: %w", err)
	}
	return n, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_results.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&v); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return v, nil
}

func parseNullableTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(timeFormat, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
