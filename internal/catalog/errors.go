package catalog

import "errors"

var (
	// ErrStorageUnavailable marks a catalog file that is missing, unreadable,
	// unwritable, or not valid JSON. It is never recovered automatically.
	ErrStorageUnavailable = errors.New("catalog storage unavailable")
	// ErrDuplicateKey reports an add for a title that already exists. The
	// existing record is untouched.
	ErrDuplicateKey = errors.New("movie already exists")
	// ErrNotFound reports a delete or update for a title that does not exist.
	ErrNotFound = errors.New("movie not found")
)
