// Package catalog owns the on-disk movie collection.
//
// The catalog is one JSON object keyed by title:
//
//	{
//	    "Inception": {"year": 2010, "rating": 8.8, "poster": "https://..."},
//	    "Heat": {"year": 1995, "rating": 8.3}
//	}
//
// Store loads the file fresh for every operation and writes it back in full
// after every mutation, via a temp file and rename. Ratings are a small sum
// type: a numeric score, or a malformed value preserved byte-for-byte so a
// bad entry never prevents the rest of the catalog from loading or saving.
package catalog
