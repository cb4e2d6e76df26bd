package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gofrs/flock"

	"movieshelf/internal/fileutil"
	"movieshelf/internal/logging"
)

// Store owns the catalog file. It keeps no state between calls: every
// operation reloads the file and every mutation writes it back in full.
//
// Add, Delete and UpdateRating are load/modify/save sequences. Without
// WithLock, two processes mutating the same file race and the later save
// wins in full.
type Store struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLock enables an advisory lock file next to the catalog that serializes
// mutations across processes.
func WithLock(enabled bool) Option {
	return func(s *Store) {
		if enabled {
			s.lock = flock.New(s.path + ".lock")
		} else {
			s.lock = nil
		}
	}
}

// NewStore creates a store for the catalog file at path.
func NewStore(path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog path required")
	}
	s := &Store{path: path, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "catalog")
	return s, nil
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// Init writes an empty catalog when the file does not exist yet. It reports
// whether a file was created.
func (s *Store) Init() (bool, error) {
	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: stat %s: %w", ErrStorageUnavailable, s.path, err)
	}
	if err := s.Save(NewCollection()); err != nil {
		return false, err
	}
	s.logger.Info("created empty catalog", logging.String("path", s.path))
	return true, nil
}

// Load reads the entire catalog. A missing file is an error: callers never
// receive a silently substituted empty collection.
func (s *Store) Load() (*Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorageUnavailable, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrStorageUnavailable, s.path)
	}

	coll := NewCollection()
	if err := json.Unmarshal(data, coll); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrStorageUnavailable, s.path, err)
	}

	s.logger.Debug("loaded catalog",
		logging.Int("entry_count", coll.Len()),
		logging.String("path", s.path))
	return coll, nil
}

// Save replaces the catalog file with coll, atomically.
func (s *Store) Save(coll *Collection) error {
	if coll == nil {
		coll = NewCollection()
	}
	compact, err := coll.MarshalJSON()
	if err != nil {
		return fmt.Errorf("%w: encode catalog: %w", ErrStorageUnavailable, err)
	}
	var data bytes.Buffer
	if err := json.Indent(&data, compact, "", "    "); err != nil {
		return fmt.Errorf("%w: format catalog: %w", ErrStorageUnavailable, err)
	}
	data.WriteByte('\n')

	if err := fileutil.WriteFileAtomic(s.path, data.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorageUnavailable, s.path, err)
	}

	s.logger.Debug("saved catalog",
		logging.Int("entry_count", coll.Len()),
		logging.String("path", s.path))
	return nil
}

// Add inserts rec. When the title already exists it returns ErrDuplicateKey
// and writes nothing.
func (s *Store) Add(rec Record) error {
	if strings.TrimSpace(rec.Title) == "" {
		return errors.New("title cannot be empty")
	}
	return s.mutate(func(coll *Collection) error {
		if coll.Has(rec.Title) {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, rec.Title)
		}
		coll.Put(rec)
		s.logger.Info("added movie",
			logging.String(logging.FieldTitle, rec.Title),
			logging.String("rating", rec.Rating.String()))
		return nil
	})
}

// Delete removes title. When it is absent it returns ErrNotFound and writes
// nothing.
func (s *Store) Delete(title string) error {
	return s.mutate(func(coll *Collection) error {
		if !coll.Remove(title) {
			return fmt.Errorf("%w: %q", ErrNotFound, title)
		}
		s.logger.Info("deleted movie", logging.String(logging.FieldTitle, title))
		return nil
	})
}

// UpdateRating replaces only the rating of title; year and poster are kept.
// When the title is absent it returns ErrNotFound and writes nothing.
func (s *Store) UpdateRating(title string, rating Rating) error {
	return s.mutate(func(coll *Collection) error {
		rec, ok := coll.Get(title)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, title)
		}
		rec.Rating = rating
		coll.Put(rec)
		s.logger.Info("updated rating",
			logging.String(logging.FieldTitle, title),
			logging.String("rating", rating.String()))
		return nil
	})
}

// mutate runs one load/modify/save cycle. fn returning an error aborts
// before anything is written.
func (s *Store) mutate(fn func(*Collection) error) error {
	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return fmt.Errorf("%w: acquire lock: %w", ErrStorageUnavailable, err)
		}
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				s.logger.Warn("failed to release catalog lock",
					logging.String(logging.FieldEventType, "catalog_unlock_failed"),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "remove the stale .lock file if no other movieshelf process is running"),
					logging.String(logging.FieldImpact, "other processes may block until this one exits"))
			}
		}()
	}

	coll, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(coll); err != nil {
		return err
	}
	return s.Save(coll)
}
