// ABOUTME: Main client for the TechPulse library providing feed normalization and tagging
// ABOUTME: Offers the ingestion core for embedding without the CLI or its configuration

package techpulse

import (
	"context"
	"errors"
	"time"

	"techpulse-app/core/domain"
	"techpulse-app/core/feed"
	"techpulse-app/core/ingest"
	"techpulse-app/core/interfaces"
	"techpulse-app/core/tagging"
	"techpulse-app/pkg/featureflags"
	"techpulse-app/pkg/utils/html"
)

// Client is the main entry point for the TechPulse library
type Client struct {
	feeds    *feed.FeedService
	engine   *tagging.Engine
	pipeline *ingest.Pipeline
	deps     interfaces.Dependencies
	config   Config
}

// Config holds the configuration for the client
type Config struct {
	Cache      interfaces.Cache
	HTTPClient interfaces.HTTPClient
	Logger     interfaces.Logger
	Metrics    interfaces.Metrics
	Flags      featureflags.Manager

	// ArticleStore receives ingested articles; Ingest fails without one
	ArticleStore interfaces.ArticleStore

	// SourceStore records last-fetch times; optional
	SourceStore interfaces.SourceStore

	EntityExtractor interfaces.EntityExtractor
	PhraseExtractor interfaces.PhraseRelevanceExtractor

	// ExtractionCacheTTL caches extractor results in Cache when positive
	ExtractionCacheTTL time.Duration

	FeedCacheTTL  time.Duration
	PoolSize      int
	SourceTimeout time.Duration

	closers []func() error
}

// NewClient creates a new TechPulse client with the given options
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			closeAll(config.closers)
			return nil, err
		}
	}

	if err := validateConfig(&config); err != nil {
		closeAll(config.closers)
		return nil, err
	}

	deps := interfaces.Dependencies{
		HTTPClient: config.HTTPClient,
		Cache:      config.Cache,
		Logger:     config.Logger,
		Metrics:    config.Metrics,
	}

	feeds := feed.NewFeedService(deps,
		feed.WithCacheTTL(config.FeedCacheTTL),
		feed.WithFlags(config.Flags),
	)

	tagOpts := []tagging.Option{tagging.WithFlags(config.Flags)}
	if x := config.EntityExtractor; x != nil {
		if config.ExtractionCacheTTL > 0 && config.Cache != nil {
			x = tagging.NewCachedEntityExtractor(x, config.Cache, config.ExtractionCacheTTL, config.Logger)
		}
		tagOpts = append(tagOpts, tagging.WithEntityExtractor(x))
	}
	if x := config.PhraseExtractor; x != nil {
		if config.ExtractionCacheTTL > 0 && config.Cache != nil {
			x = tagging.NewCachedPhraseExtractor(x, config.Cache, config.ExtractionCacheTTL, config.Logger)
		}
		tagOpts = append(tagOpts, tagging.WithPhraseExtractor(x))
	}
	engine := tagging.NewEngine(deps, tagOpts...)

	// Collect never touches the store, so a store-less client still gets a pipeline
	store := config.ArticleStore
	if store == nil {
		store = discardStore{}
	}
	pipelineOpts := []ingest.Option{
		ingest.WithPoolSize(config.PoolSize),
		ingest.WithSourceTimeout(config.SourceTimeout),
	}
	if config.SourceStore != nil {
		pipelineOpts = append(pipelineOpts, ingest.WithSourceStore(config.SourceStore))
	}
	pipeline, err := ingest.NewPipeline(deps, feeds, feeds.Normalizer(), engine, store, pipelineOpts...)
	if err != nil {
		closeAll(config.closers)
		return nil, NewError(ErrorTypeConfiguration, "failed to create pipeline").WithCause(err)
	}

	return &Client{
		feeds:    feeds,
		engine:   engine,
		pipeline: pipeline,
		deps:     deps,
		config:   config,
	}, nil
}

// Close releases the worker pool and anything opened by options
func (c *Client) Close() error {
	c.pipeline.Release()
	return closeAll(c.config.closers)
}

// CleanContent converts feed markup to plain text
func (c *Client) CleanContent(markup string) string {
	return html.Clean(markup)
}

// Normalize converts one raw entry of the named source into an article.
// The source name selects the provider handler.
func (c *Client) Normalize(sourceName string, entry *RawEntry) (*Article, error) {
	return c.feeds.Normalizer().Normalize(sourceName, entry)
}

// GenerateTags runs the tag strategies over an article's title and content
func (c *Client) GenerateTags(ctx context.Context, title, content string, existing []Tag) []Tag {
	return c.engine.Generate(ctx, title, content, existing)
}

// FetchArticles fetches, normalizes and tags a source's articles without storing them
func (c *Client) FetchArticles(ctx context.Context, source Source) ([]*Article, error) {
	if err := source.Validate(); err != nil {
		return nil, NewError(ErrorTypeValidation, "invalid source").WithCause(err).WithContext("source", source.Name)
	}
	articles, err := c.pipeline.Collect(ctx, source, 0)
	if err != nil {
		return nil, classify(err).WithContext("source", source.Name)
	}
	return articles, nil
}

// Ingest runs the pipeline over sources and stores the results
func (c *Client) Ingest(ctx context.Context, sources []Source) (*IngestResult, error) {
	if c.config.ArticleStore == nil {
		return nil, ErrNoArticleStore
	}
	return c.pipeline.Run(ctx, sources)
}

// validateConfig validates the client configuration
func validateConfig(config *Config) error {
	if config.HTTPClient == nil {
		return NewError(ErrorTypeConfiguration, "HTTP client is required")
	}

	if config.Logger == nil {
		return NewError(ErrorTypeConfiguration, "logger is required")
	}

	if config.PoolSize < 1 {
		return NewError(ErrorTypeConfiguration, "pool size must be at least 1").WithContext("pool_size", config.PoolSize)
	}

	// Cache is optional: a nil cache disables feed and extraction caching

	return nil
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type discardStore struct{}

func (discardStore) SaveArticles(context.Context, []*domain.Article) error { return nil }

func (discardStore) DeleteArticlesCreatedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (discardStore) DeleteArticlesWithoutSource(context.Context) (int64, error) { return 0, nil }
