// ABOUTME: Wires configuration into the logger, caches, stores and ingestion services
// ABOUTME: One app value backs every CLI command and is closed when the command ends

package main

import (
	"context"
	"time"

	"techpulse-app/core/feed"
	"techpulse-app/core/ingest"
	"techpulse-app/core/interfaces"
	"techpulse-app/core/sources"
	"techpulse-app/core/tagging"
	"techpulse-app/infrastructure/cache/memory"
	rediscache "techpulse-app/infrastructure/cache/redis"
	sqlitecache "techpulse-app/infrastructure/cache/sqlite"
	stdhttp "techpulse-app/infrastructure/http/standard"
	stdlogger "techpulse-app/infrastructure/logger/standard"
	"techpulse-app/infrastructure/metrics"
	"techpulse-app/infrastructure/semantic"
	redisstore "techpulse-app/infrastructure/storage/redis"
	sqlitestore "techpulse-app/infrastructure/storage/sqlite"
	"techpulse-app/pkg/config"
	"techpulse-app/pkg/featureflags"
)

const fetchTimeout = 30 * time.Second

// store is what the app needs from a persistence backend
type store interface {
	interfaces.ArticleStore
	interfaces.SourceStore
	Close() error
}

type app struct {
	cfg      *config.Config
	logger   interfaces.Logger
	flags    featureflags.Manager
	metrics  *metrics.Prometheus
	deps     interfaces.Dependencies
	store    store
	feeds    *feed.FeedService
	engine   *tagging.Engine
	pipeline *ingest.Pipeline
	sources  *sources.Service
	closers  []func() error
}

func newApp(cfg *config.Config) (*app, error) {
	logger := stdlogger.New(stdlogger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	a := &app{
		cfg:    cfg,
		logger: logger,
		flags:  featureflags.NewEnvManager("TECHPULSE_FLAG_"),
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	a.store = st
	a.closers = append(a.closers, st.Close)

	a.deps = interfaces.Dependencies{
		Cache:      a.openCache(),
		HTTPClient: a.httpClient(),
		Logger:     logger,
	}
	if cfg.Metrics.Enabled && a.flags.IsEnabled(context.Background(), featureflags.MetricsEnabled) {
		a.metrics = metrics.NewPrometheus()
		a.deps.Metrics = a.metrics
	}

	a.feeds = feed.NewFeedService(a.deps,
		feed.WithCacheTTL(cfg.FeedCacheTTL()),
		feed.WithFlags(a.flags),
	)
	a.engine = tagging.NewEngine(a.deps, a.tagOptions()...)

	a.pipeline, err = ingest.NewPipeline(a.deps, a.feeds, a.feeds.Normalizer(), a.engine, a.store,
		ingest.WithPoolSize(cfg.Ingest.PoolSize),
		ingest.WithSourceTimeout(cfg.SourceTimeout()),
		ingest.WithSourceStore(a.store),
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() error { a.pipeline.Release(); return nil })

	a.sources = sources.NewService(a.deps, a.store, a.store, a.feeds, a.pipeline)
	return a, nil
}

func openStore(cfg *config.Config) (store, error) {
	if cfg.Store.Type == "redis" {
		return redisstore.Open(cfg.Store.Redis)
	}
	return sqlitestore.Open(cfg.Store.Path)
}

func (a *app) openCache() interfaces.Cache {
	switch a.cfg.Cache.Type {
	case "none":
		return nil
	case "redis":
		c, err := rediscache.NewRedisCache(a.cfg.Cache.Redis)
		if err != nil {
			a.logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		a.closers = append(a.closers, c.Close)
		return c
	case "sqlite":
		c, err := sqlitecache.NewSQLiteCache(a.cfg.Cache.SQLitePath)
		if err != nil {
			a.logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		a.closers = append(a.closers, c.Close)
		return c
	}
	return memory.NewMemoryCacheWithExpiration(time.Duration(a.cfg.Cache.Memory.DefaultExpiration) * time.Second)
}

func (a *app) httpClient() interfaces.HTTPClient {
	opts := []stdhttp.ClientOption{
		stdhttp.WithRetries(a.cfg.Ingest.FetchRetries),
		stdhttp.WithFlags(a.flags),
	}
	if a.cfg.Ingest.FetchRatePerHost > 0 {
		opts = append(opts, stdhttp.WithHostLimiter(stdhttp.NewHostLimiter(a.cfg.Ingest.FetchRatePerHost, a.cfg.Ingest.FetchBurst)))
	}
	return stdhttp.NewStandardHTTPClient(fetchTimeout, opts...)
}

// tagOptions wires the model-backed strategies; failures leave the engine in degraded mode
func (a *app) tagOptions() []tagging.Option {
	opts := []tagging.Option{tagging.WithFlags(a.flags)}
	if !a.cfg.Semantic.Enabled {
		return opts
	}

	extractor, err := semantic.New(a.cfg.Semantic, a.logger)
	if err != nil {
		a.logger.Warn("Semantic tagging unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return opts
	}

	ttl := a.cfg.ExtractionCacheTTL()
	return append(opts,
		tagging.WithEntityExtractor(tagging.NewCachedEntityExtractor(extractor, a.deps.Cache, ttl, a.logger)),
		tagging.WithPhraseExtractor(tagging.NewCachedPhraseExtractor(extractor, a.deps.Cache, ttl, a.logger)),
	)
}

// Close releases everything in reverse order of acquisition
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
