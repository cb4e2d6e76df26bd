package testsupport

import (
	"path/filepath"
	"testing"

	"movieshelf/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.TMDB.APIKey = "test"
	cfgVal.Paths.DataFile = filepath.Join(base, "data", "data.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Enrichment.CachePath = filepath.Join(base, "cache", "lookups.db")
	cfgVal.Render.OutputPath = filepath.Join(base, "site", "index.html")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDB points the test config at a TMDB endpoint, typically an httptest
// server, and enables enrichment.
func WithTMDB(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = baseURL
		b.cfg.TMDB.APIKey = apiKey
		b.cfg.TMDB.RequestsPerSecond = 1000
		b.cfg.Enrichment.Enabled = true
	}
}

// WithoutLookupCache disables the SQLite lookup cache.
func WithoutLookupCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Enrichment.CachePath = ""
	}
}

// WithStoreLock enables the advisory catalog lock.
func WithStoreLock() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Lock = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
