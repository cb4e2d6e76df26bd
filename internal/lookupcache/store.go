package lookupcache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// DefaultMaxAge bounds how long a resolved lookup is reused. Vote averages
// drift, so entries are refreshed periodically.
const DefaultMaxAge = 30 * 24 * time.Hour

// ErrSchemaMismatch indicates the cache was written by an incompatible version.
var ErrSchemaMismatch = errors.New("lookup cache schema version mismatch")

// Entry is a resolved TMDB lookup.
type Entry struct {
	Title     string
	Year      string
	Rating    float64
	Poster    string
	FetchedAt time.Time
}

// Store is a SQLite-backed cache of resolved lookups keyed by normalized query.
type Store struct {
	db     *sql.DB
	path   string
	maxAge time.Duration
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAge overrides DefaultMaxAge. Zero or negative keeps entries forever.
func WithMaxAge(maxAge time.Duration) Option {
	return func(s *Store) {
		s.maxAge = maxAge
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates or opens the cache database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("lookup cache path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lookup cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, maxAge: DefaultMaxAge, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Key normalizes a lookup query so that spacing and case variants share an entry.
func Key(query string) string {
	return cases.Fold().String(strings.Join(strings.Fields(query), " "))
}

// Get returns the cached entry for query. Expired entries are reported as misses.
func (s *Store) Get(ctx context.Context, query string) (Entry, bool, error) {
	key := Key(query)
	if key == "" {
		return Entry{}, false, nil
	}

	var (
		entry     Entry
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT title, year, rating, poster, fetched_at FROM lookups WHERE query_key = ?", key,
	).Scan(&entry.Title, &entry.Year, &entry.Rating, &entry.Poster, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read lookup %q: %w", key, err)
	}
	entry.FetchedAt = time.Unix(fetchedAt, 0)

	if s.maxAge > 0 && s.now().Sub(entry.FetchedAt) > s.maxAge {
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Put stores entry under query, replacing any previous value.
func (s *Store) Put(ctx context.Context, query string, entry Entry) error {
	key := Key(query)
	if key == "" {
		return errors.New("lookup query must not be empty")
	}
	fetchedAt := entry.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = s.now()
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO lookups (query_key, title, year, rating, poster, fetched_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(query_key) DO UPDATE SET
			   title = excluded.title,
			   year = excluded.year,
			   rating = excluded.rating,
			   poster = excluded.poster,
			   fetched_at = excluded.fetched_at`,
			key, entry.Title, entry.Year, entry.Rating, entry.Poster, fetchedAt.Unix(),
		)
		return err
	})
}

// Prune deletes entries older than the configured max age and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.maxAge).Unix()
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM lookups WHERE fetched_at < ?", cutoff)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune lookups: %w", err)
	}
	return removed, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild it)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
