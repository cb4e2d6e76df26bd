package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movieshelf/internal/enrichment"
	"movieshelf/internal/testsupport"
)

func newTMDBServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAddWithLookup(t *testing.T) {
	server := newTMDBServer(t, `{"results":[{"id":27205,"title":"Inception","release_date":"2010-07-15","poster_path":"/inc.jpg","vote_average":8.369}]}`, http.StatusOK)
	env := setupCLITestEnv(t, testsupport.WithTMDB(server.URL, "key"))
	env.seed(t, "{}")

	out, _, err := runCLI(t, []string{"add", "inception"}, env.configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, `added "Inception" (2010) with rating 8.4`)

	contents := env.catalogContents(t)
	requireContains(t, contents, `"Inception"`)
	requireContains(t, contents, `"rating": 8.4`)
	requireContains(t, contents, `"poster": "https://image.tmdb.org/t/p/w500/inc.jpg"`)
}

func TestAddLookupFailuresPersistNothing(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		want   error
	}{
		{"no match", `{"results":[]}`, http.StatusOK, enrichment.ErrNoMatch},
		{"server error", `{}`, http.StatusServiceUnavailable, enrichment.ErrUnavailable},
		{"bad payload", `<html>`, http.StatusOK, enrichment.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTMDBServer(t, tc.body, tc.status)
			env := setupCLITestEnv(t, testsupport.WithTMDB(server.URL, "key"), testsupport.WithoutLookupCache())
			env.seed(t, "{}")

			_, _, err := runCLI(t, []string{"add", "Whatever"}, env.configPath)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if got := env.catalogContents(t); got != "{}" {
				t.Fatalf("catalog changed: %q", got)
			}
		})
	}
}

func TestManualAddBypassesLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected TMDB request %s", r.URL)
	}))
	t.Cleanup(server.Close)
	env := setupCLITestEnv(t, testsupport.WithTMDB(server.URL, "key"))
	env.seed(t, "{}")

	if _, _, err := runCLI(t, []string{"add", "Home Video", "--year", "2003", "--rating", "6"}, env.configPath); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(env.catalogContents(t), `"Home Video"`) {
		t.Fatal("expected manual record")
	}
}
