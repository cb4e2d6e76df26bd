package testsupport

import (
	"testing"

	"movieshelf/internal/catalog"
	"movieshelf/internal/config"
)

// MustOpenStore builds a catalog.Store for cfg and creates an empty catalog
// file when none exists yet.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := catalog.NewStore(cfg.Paths.DataFile, catalog.WithLock(cfg.Store.Lock))
	if err != nil {
		t.Fatalf("catalog.NewStore: %v", err)
	}
	if _, err := store.Init(); err != nil {
		t.Fatalf("catalog init: %v", err)
	}
	return store
}
