// ABOUTME: Configuration options for the TechPulse library client
// ABOUTME: Provides functional options pattern for flexible client configuration

package techpulse

import (
	"time"

	"techpulse-app/core/ingest"
	"techpulse-app/core/interfaces"
	"techpulse-app/core/tagging"
	"techpulse-app/pkg/featureflags"
)

// Option is a functional option for configuring the client
type Option func(*Config) error

// WithCache sets a custom cache implementation; nil disables caching
func WithCache(cache interfaces.Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithMetrics records ingestion observations
func WithMetrics(m interfaces.Metrics) Option {
	return func(c *Config) error {
		c.Metrics = m
		return nil
	}
}

// WithFlags sets the feature flag manager
func WithFlags(m featureflags.Manager) Option {
	return func(c *Config) error {
		c.Flags = m
		return nil
	}
}

// WithArticleStore sets where Ingest saves articles
func WithArticleStore(store interfaces.ArticleStore) Option {
	return func(c *Config) error {
		c.ArticleStore = store
		return nil
	}
}

// WithSourceStore records last-fetch times after successful ingestion
func WithSourceStore(store interfaces.SourceStore) Option {
	return func(c *Config) error {
		c.SourceStore = store
		return nil
	}
}

// WithEntityExtractor enables the entity tag strategy
func WithEntityExtractor(x interfaces.EntityExtractor) Option {
	return func(c *Config) error {
		c.EntityExtractor = x
		return nil
	}
}

// WithPhraseExtractor enables the phrase-relevance tag strategy
func WithPhraseExtractor(x interfaces.PhraseRelevanceExtractor) Option {
	return func(c *Config) error {
		c.PhraseExtractor = x
		return nil
	}
}

// WithExtractionCacheTTL caches extractor results for ttl; zero disables
func WithExtractionCacheTTL(ttl time.Duration) Option {
	return func(c *Config) error {
		c.ExtractionCacheTTL = ttl
		return nil
	}
}

// WithFeedCacheTTL sets how long fetched feed bodies are cached; zero disables
func WithFeedCacheTTL(ttl time.Duration) Option {
	return func(c *Config) error {
		c.FeedCacheTTL = ttl
		return nil
	}
}

// WithPoolSize sets how many sources Ingest processes concurrently
func WithPoolSize(size int) Option {
	return func(c *Config) error {
		c.PoolSize = size
		return nil
	}
}

// WithSourceTimeout bounds the time spent on one source
func WithSourceTimeout(d time.Duration) Option {
	return func(c *Config) error {
		c.SourceTimeout = d
		return nil
	}
}

// defaultConfig returns the default client configuration
func defaultConfig() Config {
	return Config{
		Cache:              DefaultMemoryCache(),
		HTTPClient:         DefaultHTTPClient(),
		Logger:             DefaultLogger(),
		ExtractionCacheTTL: tagging.DefaultExtractionTTL,
		FeedCacheTTL:       5 * time.Minute,
		PoolSize:           ingest.DefaultPoolSize,
		SourceTimeout:      ingest.DefaultSourceTimeout,
	}
}
