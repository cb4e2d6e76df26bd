package config

const (
	defaultConfigPath         = "~/.config/movieshelf/config.toml"
	defaultDataFile           = "~/.local/share/movieshelf/data.json"
	defaultLogDir             = "~/.local/share/movieshelf/logs"
	defaultLookupCachePath    = "~/.cache/movieshelf/lookups.db"
	defaultTMDBLanguage       = "en-US"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL   = "https://image.tmdb.org/t/p/w500"
	defaultTMDBTimeoutSeconds = 10
	defaultTMDBRequestsPerSec = 10
	defaultRenderOutputPath   = "index.html"
	defaultRenderPageTitle    = "My Movie App"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataFile: defaultDataFile,
			LogDir:   defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			ImageBaseURL:      defaultTMDBImageBaseURL,
			Language:          defaultTMDBLanguage,
			TimeoutSeconds:    defaultTMDBTimeoutSeconds,
			RequestsPerSecond: defaultTMDBRequestsPerSec,
		},
		Enrichment: Enrichment{
			CachePath: defaultLookupCachePath,
		},
		Render: Render{
			OutputPath: defaultRenderOutputPath,
			PageTitle:  defaultRenderPageTitle,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
