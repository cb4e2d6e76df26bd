package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestStore(t *testing.T, contents string, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("seed catalog: %v", err)
		}
	}
	store, err := NewStore(path, opts...)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestNewStoreRequiresPath(t *testing.T) {
	if _, err := NewStore("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLoadMissingFileIsStorageUnavailable(t *testing.T) {
	store := newTestStore(t, "")
	_, err := store.Load()
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if _, statErr := os.Stat(store.Path()); !os.IsNotExist(statErr) {
		t.Fatal("Load must not create the catalog file")
	}
}

func TestLoadMalformedFileIsStorageUnavailable(t *testing.T) {
	for name, contents := range map[string]string{
		"invalid json": "not valid json",
		"array":        "[]",
		"whitespace":   "  \n",
		"bad record":   `{"Heat": 5}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t, contents)
			if _, err := store.Load(); !errors.Is(err, ErrStorageUnavailable) {
				t.Fatalf("expected ErrStorageUnavailable, got %v", err)
			}
		})
	}
}

func TestInitCreatesEmptyCatalogOnce(t *testing.T) {
	store := newTestStore(t, "")
	created, err := store.Init()
	if err != nil || !created {
		t.Fatalf("Init() = %v, %v; want true, nil", created, err)
	}
	coll, err := store.Load()
	if err != nil {
		t.Fatalf("Load after Init: %v", err)
	}
	if coll.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d", coll.Len())
	}

	if err := store.Add(Record{Title: "Heat", Year: YearFromInt(1995), Rating: NumericRating(8.3)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	created, err = store.Init()
	if err != nil || created {
		t.Fatalf("second Init() = %v, %v; want false, nil", created, err)
	}
	if coll, _ := store.Load(); coll.Len() != 1 {
		t.Fatal("Init must not overwrite an existing catalog")
	}
}

func TestAddInsertsAndKeepsExistingEntries(t *testing.T) {
	store := newTestStore(t, `{"Alien": {"year": 1979, "rating": 8.5}}`)
	rec := Record{Title: "Heat", Year: YearFromInt(1995), Rating: NumericRating(8.3)}

	if err := store.Add(rec); err != nil {
		t.Fatalf("Add: %v", err)
	}

	coll, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if coll.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", coll.Len())
	}
	alien, _ := coll.Get("Alien")
	if v, _ := alien.Rating.Value(); v != 8.5 || alien.Year.String() != "1979" {
		t.Fatalf("existing entry changed: %+v", alien)
	}
	heat, ok := coll.Get("Heat")
	if !ok {
		t.Fatal("added entry missing")
	}
	if v, _ := heat.Rating.Value(); v != 8.3 || heat.Year.String() != "1995" || heat.Poster != nil {
		t.Fatalf("unexpected added entry: %+v", heat)
	}
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	store := newTestStore(t, "{}")
	first := Record{Title: "Heat", Year: YearFromInt(1995), Rating: NumericRating(8.3)}
	second := Record{Title: "Heat", Year: YearFromInt(2020), Rating: NumericRating(2)}

	if err := store.Add(first); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	before, _ := os.ReadFile(store.Path())

	err := store.Add(second)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	after, _ := os.ReadFile(store.Path())
	if !bytes.Equal(before, after) {
		t.Fatal("duplicate add must not rewrite the catalog")
	}
	coll, _ := store.Load()
	got, _ := coll.Get("Heat")
	if v, _ := got.Rating.Value(); v != 8.3 || got.Year.String() != "1995" {
		t.Fatalf("existing record changed: %+v", got)
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	store := newTestStore(t, "{}")
	if err := store.Add(Record{Title: " "}); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestAddOnMissingFileFails(t *testing.T) {
	store := newTestStore(t, "")
	err := store.Add(Record{Title: "Heat", Rating: NumericRating(8)})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestDeleteAbsentLeavesFileUnchanged(t *testing.T) {
	seed := `{"Alien":   {"year": 1979, "rating": 8.5}}`
	store := newTestStore(t, seed)

	err := store.Delete("Heat")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(after) != seed {
		t.Fatalf("file changed: %q", after)
	}
}

func TestDeleteRemovesEntry(t *testing.T) {
	store := newTestStore(t, `{"Alien": {"year": 1979, "rating": 8.5}, "Heat": {"year": 1995, "rating": 8.3}}`)
	if err := store.Delete("Alien"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	coll, _ := store.Load()
	if coll.Has("Alien") || !coll.Has("Heat") {
		t.Fatalf("unexpected catalog after delete: %+v", coll.Records())
	}
}

func TestDeleteIsCaseSensitive(t *testing.T) {
	store := newTestStore(t, `{"Alien": {"year": 1979, "rating": 8.5}}`)
	if err := store.Delete("alien"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for different case, got %v", err)
	}
}

func TestUpdateRatingChangesOnlyRating(t *testing.T) {
	store := newTestStore(t, `{"Inception": {"year": 2010, "rating": 8.8, "poster": "https://img.example/inception.jpg"}}`)

	if err := store.UpdateRating("Inception", NumericRating(9.5)); err != nil {
		t.Fatalf("UpdateRating: %v", err)
	}

	coll, _ := store.Load()
	rec, _ := coll.Get("Inception")
	if v, _ := rec.Rating.Value(); v != 9.5 {
		t.Fatalf("rating not updated: %v", rec.Rating)
	}
	if rec.Year.String() != "2010" {
		t.Fatalf("year changed: %q", rec.Year.String())
	}
	if poster, ok := rec.PosterURL(); !ok || poster != "https://img.example/inception.jpg" {
		t.Fatalf("poster changed: %q %v", poster, ok)
	}
}

func TestUpdateRatingAbsentIsNotFound(t *testing.T) {
	seed := `{"Alien": {"year": 1979, "rating": 8.5}}`
	store := newTestStore(t, seed)
	if err := store.UpdateRating("Heat", NumericRating(5)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	after, _ := os.ReadFile(store.Path())
	if string(after) != seed {
		t.Fatalf("file changed: %q", after)
	}
}

func TestSaveWritesIndentedJSONAndPreservesMalformedRatings(t *testing.T) {
	store := newTestStore(t, `{"Odd": {"year": "N/A", "rating": "unrated"}}`)
	if err := store.Add(Record{Title: "Heat", Year: YearFromInt(1995), Rating: NumericRating(8)}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n    \"Odd\": {\n        \"year\": \"N/A\",\n        \"rating\": \"unrated\"\n    },\n    \"Heat\": {\n        \"year\": 1995,\n        \"rating\": 8\n    }\n}\n"
	if string(data) != want {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
}

func TestSaveFailureIsStorageUnavailable(t *testing.T) {
	dir := t.TempDir()
	// A directory at the catalog path makes the final rename fail.
	path := filepath.Join(dir, "data.json")
	if err := os.MkdirAll(filepath.Join(path, "occupied"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(NewCollection()); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestLockedStoreSerializesConcurrentAdds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// One store per goroutine mirrors separate processes.
			store, err := NewStore(path, WithLock(true))
			if err != nil {
				errs <- err
				return
			}
			errs <- store.Add(Record{Title: string(rune('A' + i)), Rating: NumericRating(float64(i + 1))})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	store, _ := NewStore(path)
	coll, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if coll.Len() != writers {
		t.Fatalf("expected %d entries with locking, got %d", writers, coll.Len())
	}
}

func TestMutationsKeepUnknownFields(t *testing.T) {
	store := newTestStore(t, `{
    "Heat": {"year": 1995, "rating": 8, "director": "Michael Mann", "tags": ["crime", "la"]},
    "Alien": {"year": 1979, "rating": 8.5, "director": "Ridley Scott"}
}`)

	if err := store.UpdateRating("Heat", NumericRating(9)); err != nil {
		t.Fatalf("UpdateRating: %v", err)
	}
	if err := store.Delete("Alien"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Add(Record{Title: "Cats", Year: YearFromInt(2019), Rating: NumericRating(2.8)}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	coll, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	heat, _ := coll.Get("Heat")
	if v, _ := heat.Rating.Value(); v != 9 {
		t.Fatalf("rating = %v", v)
	}
	director, ok := heat.Extra("director")
	if !ok || string(director) != `"Michael Mann"` {
		t.Fatalf("director lost: %q", director)
	}
	if _, ok := heat.Extra("tags"); !ok {
		t.Fatal("tags lost")
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if !bytes.Contains(data, []byte(`"director": "Michael Mann"`)) {
		t.Fatalf("director missing from file:\n%s", data)
	}
}

func TestSaveKeepsAmpersandsReadable(t *testing.T) {
	store := newTestStore(t, "{}")
	rec := Record{Title: "Tom & Jerry", Year: YearFromInt(1992), Rating: NumericRating(6)}.
		WithPoster("https://img.example/p.jpg?a=1&b=2")
	if err := store.Add(rec); err != nil {
		t.Fatalf("Add: %v", err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if bytes.Contains(data, []byte(`\u0026`)) {
		t.Fatalf("ampersand escaped:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"Tom & Jerry"`)) || !bytes.Contains(data, []byte(`a=1&b=2`)) {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
}
