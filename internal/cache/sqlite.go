package cache

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Compile-time assertion: *SQLite implements Store.
var _ Store = (*SQLite)(nil)

// SQLite is the persistent Store, one row per cache entry.
// The database file survives restarts, which is the whole point: asset
// records rarely change and the 30-day TTL outlives any single process.
type SQLite struct {
	db  *sql.DB
	now func() time.Time // injectable for testing; defaults to time.Now
}

// OpenSQLite opens (or creates) the cache database at path, runs any
// pending migrations, and returns the store. Enables WAL journal mode.
//
// MaxOpenConns is set to 1: SQLite handles concurrent writers poorly and a
// single connection keeps the PRAGMA settings applied to every query.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	var setupErr error
	defer func() {
		if setupErr != nil {
			_ = db.Close() //nolint:errcheck // cleanup after setup failure
		}
	}()

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setupErr = db.Ping(); setupErr != nil {
		return nil, fmt.Errorf("pinging cache database: %w", setupErr)
	}

	if _, setupErr = db.Exec("PRAGMA journal_mode=WAL"); setupErr != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", setupErr)
	}

	if setupErr = runMigrations(db); setupErr != nil {
		return nil, fmt.Errorf("running migrations: %w", setupErr)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %q: %w", key, err)
	}
	if s.now().After(expiresAt) {
		return nil, false, nil
	}
	return value, true, nil
}

func (s *SQLite) GetStale(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM cache_entries WHERE key = ?", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading stale cache entry %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`, key, value, now, now.Add(ttl))
	if err != nil {
		return fmt.Errorf("writing cache entry %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE key IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("deleting cache entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted cache entries: %w", err)
	}
	return n, nil
}

func (s *SQLite) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM cache_entries WHERE key LIKE ? || '%' ORDER BY key", prefix)
	if err != nil {
		return nil, fmt.Errorf("listing cache keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning cache key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLite) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var oldest sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(LENGTH(value)), 0), MIN(stored_at)
		FROM cache_entries
	`).Scan(&st.Entries, &st.TotalBytes, &oldest)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	if oldest.Valid {
		st.Oldest = oldest.Time
	}
	return st, nil
}

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()

		var count int
		if err := db.QueryRow(
			"SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", filename,
		).Scan(&count); err != nil {
			return fmt.Errorf("checking migration %s: %w", filename, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + filename)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", filename, err)
		}

		if err := applyMigration(db, filename, string(content)); err != nil {
			return err
		}
	}

	return nil
}

// applyMigration executes a single migration inside a transaction so that a
// partially-applied migration cannot leave the schema in an inconsistent state.
func applyMigration(db *sql.DB, filename, content string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction for migration %s: %w", filename, err)
	}
	defer tx.Rollback() //nolint:errcheck // no way to do anything

	if _, err := tx.Exec(content); err != nil {
		return fmt.Errorf("executing migration %s: %w", filename, err)
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (filename) VALUES (?)", filename,
	); err != nil {
		return fmt.Errorf("recording migration %s: %w", filename, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %s: %w", filename, err)
	}

	return nil
}
