// Package tmdb is a small client for The Movie Database API.
//
// Only movie search and movie details are exposed. Requests carry the API key
// and language as query parameters, are optionally paced by a token-bucket
// limiter, and fail on any non-200 status with a *StatusError. The client
// never retries; callers decide how to surface failures.
package tmdb
