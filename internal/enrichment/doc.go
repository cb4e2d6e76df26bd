// Package enrichment resolves a free-text title into a complete catalog
// record through TMDB, so adds do not need manual year and rating entry.
//
// Resolve either returns a record or an error wrapping ErrNoMatch or
// ErrUnavailable. An optional lookup cache short-circuits repeat queries;
// cache failures are logged and otherwise ignored.
package enrichment
