// Package query implements read-only views over a loaded catalog: listing,
// case-insensitive search, rating sort, statistics, random pick, a rating
// histogram, and the HTML grid fragment used by the static page renderer.
//
// Every function is pure. Callers load the collection through catalog.Store
// and present the results; entries with malformed ratings come back as
// Malformed values for the caller to report.
package query
