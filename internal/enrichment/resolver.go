package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"movieshelf/internal/catalog"
	"movieshelf/internal/logging"
	"movieshelf/internal/lookupcache"
	"movieshelf/internal/tmdb"
)

var (
	// ErrNoMatch reports that the metadata service found nothing for a title.
	ErrNoMatch = errors.New("no matching movie found")
	// ErrUnavailable reports a transport failure, non-200 status, or
	// undecodable response from the metadata service.
	ErrUnavailable = errors.New("movie metadata service unavailable")
)

// UnknownYear is stored when the service has no release date for a movie.
const UnknownYear = "N/A"

// Cache stores resolved lookups. *lookupcache.Store satisfies it.
type Cache interface {
	Get(ctx context.Context, query string) (lookupcache.Entry, bool, error)
	Put(ctx context.Context, query string, entry lookupcache.Entry) error
}

// Resolver turns a free-text title into a catalog record using TMDB.
type Resolver struct {
	searcher     tmdb.Searcher
	imageBaseURL string
	cache        Cache
	logger       *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache enables the lookup cache.
func WithCache(cache Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds a resolver. imageBaseURL is prefixed to TMDB poster paths.
func NewResolver(searcher tmdb.Searcher, imageBaseURL string, opts ...Option) (*Resolver, error) {
	if searcher == nil {
		return nil, errors.New("tmdb searcher required")
	}
	r := &Resolver{
		searcher:     searcher,
		imageBaseURL: strings.TrimRight(strings.TrimSpace(imageBaseURL), "/"),
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "enrichment")
	return r, nil
}

// Resolve looks up title and returns the record to add. Errors wrap ErrNoMatch
// or ErrUnavailable; nothing is retried.
func (r *Resolver) Resolve(ctx context.Context, title string) (catalog.Record, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return catalog.Record{}, errors.New("title must not be empty")
	}

	if entry, ok := r.cached(ctx, title); ok {
		r.logger.Debug("lookup cache hit", logging.String(logging.FieldTitle, title))
		return entryRecord(entry), nil
	}

	resp, err := r.searcher.SearchMovie(ctx, title)
	if err != nil {
		return catalog.Record{}, fmt.Errorf("%w: search %q: %w", ErrUnavailable, title, err)
	}
	if resp == nil || len(resp.Results) == 0 {
		return catalog.Record{}, fmt.Errorf("%w: %q", ErrNoMatch, title)
	}

	entry := r.entryFromMovie(r.completeMovie(ctx, resp.Results[0]))
	r.logger.Info("resolved movie metadata",
		logging.String(logging.FieldTitle, title),
		logging.String("resolved_title", entry.Title),
		logging.String("year", entry.Year),
		logging.Float64("rating", entry.Rating),
	)
	r.store(ctx, title, entry)
	return entryRecord(entry), nil
}

func (r *Resolver) cached(ctx context.Context, title string) (lookupcache.Entry, bool) {
	if r.cache == nil {
		return lookupcache.Entry{}, false
	}
	entry, ok, err := r.cache.Get(ctx, title)
	if err != nil {
		logging.WarnWithContext(r.logger, "lookup cache read failed",
			"lookup_cache_read_failed",
			logging.String(logging.FieldTitle, title),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the lookup cache file if the problem persists"),
			logging.String(logging.FieldImpact, "lookup goes to TMDB"),
		)
		return lookupcache.Entry{}, false
	}
	return entry, ok
}

func (r *Resolver) store(ctx context.Context, title string, entry lookupcache.Entry) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Put(ctx, title, entry); err != nil {
		logging.WarnWithContext(r.logger, "lookup cache write failed",
			"lookup_cache_write_failed",
			logging.String(logging.FieldTitle, title),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next lookup of this title goes to TMDB"),
		)
	}
}

// completeMovie fills a missing release date or poster from the details
// endpoint. Search results are kept as they are when details fail.
func (r *Resolver) completeMovie(ctx context.Context, movie tmdb.Movie) tmdb.Movie {
	if movie.ID == 0 || (strings.TrimSpace(movie.ReleaseDate) != "" && strings.TrimSpace(movie.PosterPath) != "") {
		return movie
	}
	details, err := r.searcher.GetMovieDetails(ctx, movie.ID)
	if err != nil || details == nil {
		r.logger.Debug("movie details unavailable",
			logging.Int("tmdb_id", int(movie.ID)),
			logging.Error(err),
		)
		return movie
	}
	if strings.TrimSpace(movie.ReleaseDate) == "" {
		movie.ReleaseDate = details.ReleaseDate
	}
	if strings.TrimSpace(movie.PosterPath) == "" {
		movie.PosterPath = details.PosterPath
	}
	return movie
}

func (r *Resolver) entryFromMovie(movie tmdb.Movie) lookupcache.Entry {
	entry := lookupcache.Entry{
		Title:  strings.TrimSpace(movie.Title),
		Year:   UnknownYear,
		Rating: math.Round(movie.VoteAverage*10) / 10,
	}
	if year, ok := movie.ReleaseYear(); ok {
		entry.Year = year
	}
	if path := strings.TrimSpace(movie.PosterPath); path != "" && r.imageBaseURL != "" {
		entry.Poster = r.imageBaseURL + "/" + strings.TrimLeft(path, "/")
	}
	return entry
}

func entryRecord(entry lookupcache.Entry) catalog.Record {
	rec := catalog.Record{
		Title:  entry.Title,
		Rating: catalog.NumericRating(entry.Rating),
	}
	if year, err := strconv.Atoi(entry.Year); err == nil {
		rec.Year = catalog.YearFromInt(year)
	} else {
		rec.Year = catalog.YearFromText(entry.Year)
	}
	return rec.WithPoster(entry.Poster)
}
