// Package lookupcache persists resolved TMDB lookups in a local SQLite
// database so repeated adds of the same title skip the network.
//
// Keys are case-folded, whitespace-collapsed queries. Entries expire after a
// configurable age. The cache is an optimization only: callers treat every
// error from it as a miss.
package lookupcache
