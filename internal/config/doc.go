// Package config loads, normalizes, and validates movieshelf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY (optionally sourced from a .env file). The Config type is
// passed explicitly into the catalog store, the enrichment resolver, and the
// renderer; nothing reads the data file path or service endpoints from
// package-level state.
package config
