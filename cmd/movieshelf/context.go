package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"movieshelf/internal/catalog"
	"movieshelf/internal/config"
	"movieshelf/internal/enrichment"
	"movieshelf/internal/logging"
	"movieshelf/internal/lookupcache"
	"movieshelf/internal/tmdb"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce    sync.Once
	logger        *slog.Logger
	correlationID string

	cache *lookupcache.Store
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		jsonFlag:      jsonFlag,
		correlationID: logging.NewCorrelationID(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// baseLogger is created once per invocation.
func (c *commandContext) baseLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// commandLogger carries the correlation id and subcommand name from the
// command context.
func (c *commandContext) commandLogger(cmd *cobra.Command) *slog.Logger {
	return logging.WithContext(c.commandCtx(cmd), c.baseLogger())
}

func (c *commandContext) commandCtx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithCorrelationID(ctx, c.correlationID)
	return logging.WithCommand(ctx, cmd.Name())
}

func (c *commandContext) openStore(cmd *cobra.Command) (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.NewStore(cfg.Paths.DataFile,
		catalog.WithLogger(c.commandLogger(cmd)),
		catalog.WithLock(cfg.Store.Lock),
	)
}

// resolver builds the TMDB resolver. It returns nil when enrichment is off
// and force is false.
func (c *commandContext) resolver(cmd *cobra.Command, force bool) (*enrichment.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Enrichment.Enabled && !force {
		return nil, nil
	}
	if cfg.TMDB.APIKey == "" {
		return nil, errors.New("tmdb.api_key is required for lookups; set TMDB_API_KEY or edit the config file")
	}
	logger := c.commandLogger(cmd)
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithTimeout(time.Duration(cfg.TMDB.TimeoutSeconds)*time.Second),
		tmdb.WithRateLimit(cfg.TMDB.RequestsPerSecond),
	)
	if err != nil {
		return nil, err
	}

	opts := []enrichment.Option{enrichment.WithLogger(logger)}
	if cache := c.lookupCache(cmd, cfg, logger); cache != nil {
		opts = append(opts, enrichment.WithCache(cache))
	}
	return enrichment.NewResolver(client, cfg.TMDB.ImageBaseURL, opts...)
}

func (c *commandContext) lookupCache(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) *lookupcache.Store {
	if c.cache != nil || cfg.Enrichment.CachePath == "" {
		return c.cache
	}
	cache, err := lookupcache.Open(c.commandCtx(cmd), cfg.Enrichment.CachePath)
	if err != nil {
		logging.WarnWithContext(logger, "lookup cache unavailable",
			"lookup_cache_open_failed",
			logging.String("path", cfg.Enrichment.CachePath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the cache file or clear enrichment.cache_path"),
			logging.String(logging.FieldImpact, "lookups go straight to TMDB"),
		)
		return nil
	}
	if removed, err := cache.Prune(c.commandCtx(cmd)); err != nil {
		logger.Debug("lookup cache prune failed", logging.Error(err))
	} else if removed > 0 {
		logger.Debug("pruned expired lookups", logging.Int("removed", int(removed)))
	}
	c.cache = cache
	return cache
}

func (c *commandContext) close() error {
	if c.cache == nil {
		return nil
	}
	err := c.cache.Close()
	c.cache = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
