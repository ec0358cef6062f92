// ABOUTME: Default implementations for library dependencies
// ABOUTME: Provides factory functions and options for caches, stores, HTTP and logging

package techpulse

import (
	"time"

	"techpulse-app/core/interfaces"
	"techpulse-app/infrastructure/cache/memory"
	rediscache "techpulse-app/infrastructure/cache/redis"
	"techpulse-app/infrastructure/cache/sqlite"
	httpInfra "techpulse-app/infrastructure/http/standard"
	loggerInfra "techpulse-app/infrastructure/logger/standard"
	"techpulse-app/infrastructure/semantic"
	redisstore "techpulse-app/infrastructure/storage/redis"
	sqlitestore "techpulse-app/infrastructure/storage/sqlite"
	"techpulse-app/pkg/config"
)

// DefaultHTTPClient creates an HTTP client with retries and per-host rate limiting
func DefaultHTTPClient() interfaces.HTTPClient {
	return httpInfra.NewStandardHTTPClient(30*time.Second,
		httpInfra.WithRetries(3),
		httpInfra.WithHostLimiter(httpInfra.NewHostLimiter(2, 4)),
	)
}

// DefaultMemoryCache creates a default in-memory cache
func DefaultMemoryCache() interfaces.Cache {
	return memory.NewMemoryCache()
}

// DefaultSQLiteCache creates a SQLite cache with the given file path
func DefaultSQLiteCache(filePath string) (*sqlite.Client, error) {
	return sqlite.NewSQLiteCache(filePath)
}

// DefaultLogger creates a default logger that writes text to stderr
func DefaultLogger() interfaces.Logger {
	return loggerInfra.NewStandardLogger()
}

// CacheOption represents cache configuration options
type CacheOption struct {
	Type     CacheType
	FilePath string             // For SQLite cache
	Redis    config.RedisConfig // For Redis cache
}

// CacheType represents the type of cache
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeSQLite CacheType = "sqlite"
	CacheTypeRedis  CacheType = "redis"
	CacheTypeNone   CacheType = "none"
)

// WithCacheOption creates a cache based on the provided options
func WithCacheOption(opt CacheOption) Option {
	return func(c *Config) error {
		switch opt.Type {
		case CacheTypeMemory:
			c.Cache = DefaultMemoryCache()
		case CacheTypeNone:
			c.Cache = nil
		case CacheTypeSQLite:
			if opt.FilePath == "" {
				opt.FilePath = "techpulse_cache.db"
			}
			cache, err := DefaultSQLiteCache(opt.FilePath)
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to open sqlite cache").WithCause(err)
			}
			c.Cache = cache
			c.closers = append(c.closers, cache.Close)
		case CacheTypeRedis:
			cache, err := rediscache.NewRedisCache(opt.Redis)
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to connect to redis cache").WithCause(err)
			}
			c.Cache = cache
			c.closers = append(c.closers, cache.Close)
		default:
			return NewError(ErrorTypeConfiguration, "invalid cache type").
				WithContext("type", string(opt.Type))
		}
		return nil
	}
}

// WithSQLiteStore opens a SQLite database for both articles and sources
func WithSQLiteStore(path string) Option {
	return func(c *Config) error {
		store, err := sqlitestore.Open(path)
		if err != nil {
			return NewError(ErrorTypeStorage, "failed to open sqlite store").WithCause(err).WithContext("path", path)
		}
		c.ArticleStore = store
		c.SourceStore = store
		c.closers = append(c.closers, store.Close)
		return nil
	}
}

// WithRedisStore connects to Redis for both articles and sources
func WithRedisStore(cfg config.RedisConfig) Option {
	return func(c *Config) error {
		store, err := redisstore.Open(cfg)
		if err != nil {
			return NewError(ErrorTypeStorage, "failed to connect to redis store").WithCause(err)
		}
		c.ArticleStore = store
		c.SourceStore = store
		c.closers = append(c.closers, store.Close)
		return nil
	}
}

// WithSemanticTagging enables entity and phrase tagging backed by a language model
func WithSemanticTagging(cfg config.SemanticConfig) Option {
	return func(c *Config) error {
		extractor, err := semantic.New(cfg, c.Logger)
		if err != nil {
			return NewError(ErrorTypeConfiguration, "failed to create semantic extractor").WithCause(err)
		}
		c.EntityExtractor = extractor
		c.PhraseExtractor = extractor
		return nil
	}
}

// WithDefaultDependencies fills in any dependency left nil
func WithDefaultDependencies() Option {
	return func(c *Config) error {
		if c.HTTPClient == nil {
			c.HTTPClient = DefaultHTTPClient()
		}
		if c.Cache == nil {
			c.Cache = DefaultMemoryCache()
		}
		if c.Logger == nil {
			c.Logger = DefaultLogger()
		}
		return nil
	}
}

// WithQuietMode configures the client to suppress all log output
func WithQuietMode() Option {
	return func(c *Config) error {
		c.Logger = interfaces.NopLogger{}
		return nil
	}
}
