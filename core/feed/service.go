// ABOUTME: Feed service fetches source feeds over HTTP and caches the raw bodies
// ABOUTME: Combines fetching, decoding and normalization independent of any scheduler

package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
	"techpulse-app/core/interfaces"
	"techpulse-app/pkg/featureflags"
)

// DefaultFeedCacheTTL is how long a fetched feed body is reused
const DefaultFeedCacheTTL = 5 * time.Minute

// maxFeedBytes caps the body read from a single feed
const maxFeedBytes = 10 << 20

// FeedService fetches and normalizes source feeds
type FeedService struct {
	deps       interfaces.Dependencies
	normalizer *Normalizer
	flags      featureflags.Manager
	cacheTTL   time.Duration
}

// ServiceOption configures a FeedService
type ServiceOption func(*FeedService)

// WithCacheTTL sets the feed body cache TTL; zero disables caching
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *FeedService) {
		s.cacheTTL = ttl
	}
}

// WithFlags gates optional behavior behind a feature flag manager
func WithFlags(m featureflags.Manager) ServiceOption {
	return func(s *FeedService) {
		s.flags = m
	}
}

// NewFeedService creates a new feed service instance
func NewFeedService(deps interfaces.Dependencies, opts ...ServiceOption) *FeedService {
	deps.Logger = interfaces.LoggerOrNop(deps.Logger)
	deps.Metrics = interfaces.MetricsOrNop(deps.Metrics)
	s := &FeedService{
		deps:       deps,
		normalizer: NewNormalizer(deps),
		cacheTTL:   DefaultFeedCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalizer returns the normalizer used by the service
func (s *FeedService) Normalizer() *Normalizer {
	return s.normalizer
}

// FetchEntries fetches and decodes the feed of a source.
// Every failure is returned as a *errors.FetchError.
func (s *FeedService) FetchEntries(ctx context.Context, source domain.Source) ([]*domain.RawEntry, error) {
	body, err := s.fetchBody(ctx, source)
	if err != nil {
		return nil, err
	}

	entries, err := DecodeFeed(body)
	if err != nil {
		// A bad body must not be served from cache on the next refresh
		s.dropCachedFeed(ctx, source.URL)
		return nil, &coreerrors.FetchError{Source: source.Name, URL: source.URL, Err: err}
	}
	return entries, nil
}

// NormalizeFeed fetches a source and normalizes its entries.
// A feed that cannot be fetched or decoded yields an empty list, never an error.
func (s *FeedService) NormalizeFeed(ctx context.Context, source domain.Source) []*domain.Article {
	entries, err := s.FetchEntries(ctx, source)
	if err != nil {
		s.deps.Logger.Error("Failed to fetch feed", map[string]interface{}{
			"source": source.Name,
			"url":    source.URL,
			"error":  err.Error(),
		})
		return []*domain.Article{}
	}
	return s.normalizer.NormalizeEntries(source.Name, entries)
}

func (s *FeedService) fetchBody(ctx context.Context, source domain.Source) ([]byte, error) {
	fetchErr := func(status int, err error) error {
		return &coreerrors.FetchError{Source: source.Name, URL: source.URL, StatusCode: status, Err: err}
	}

	// Validate URL
	if source.URL == "" {
		return nil, fetchErr(0, errors.New("feed URL cannot be empty"))
	}
	parsedURL, err := url.Parse(source.URL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fetchErr(0, errors.New("invalid URL format"))
	}

	// Check cache first
	if body, ok := s.getCachedFeed(ctx, source.URL); ok {
		s.deps.Logger.Debug("Feed served from cache", map[string]interface{}{
			"source": source.Name,
		})
		return body, nil
	}

	if s.deps.HTTPClient == nil {
		return nil, fetchErr(0, errors.New("HTTP client not configured"))
	}

	resp, err := s.deps.HTTPClient.Get(ctx, source.URL)
	if err != nil {
		return nil, fetchErr(0, err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fetchErr(resp.StatusCode(), fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxFeedBytes))
	if err != nil {
		return nil, fetchErr(0, err)
	}

	s.cacheFeed(ctx, source.URL, body)
	return body, nil
}

func (s *FeedService) cacheEnabled(ctx context.Context) bool {
	if s.deps.Cache == nil || s.cacheTTL <= 0 {
		return false
	}
	return featureflags.Enabled(ctx, s.flags, featureflags.FeedCache)
}

func feedCacheKey(feedURL string) string {
	return fmt.Sprintf("feed:%s", feedURL)
}

// getCachedFeed retrieves a feed body from cache
func (s *FeedService) getCachedFeed(ctx context.Context, feedURL string) ([]byte, bool) {
	if !s.cacheEnabled(ctx) {
		return nil, false
	}
	data, err := s.deps.Cache.Get(ctx, feedCacheKey(feedURL))
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			s.deps.Logger.Warn("Feed cache read failed", map[string]interface{}{
				"url":   feedURL,
				"error": err.Error(),
			})
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

// cacheFeed stores a feed body in cache; failures are logged and ignored
func (s *FeedService) cacheFeed(ctx context.Context, feedURL string, body []byte) {
	if !s.cacheEnabled(ctx) {
		return
	}
	if err := s.deps.Cache.Set(ctx, feedCacheKey(feedURL), body, s.cacheTTL); err != nil {
		s.deps.Logger.Warn("Feed cache write failed", map[string]interface{}{
			"url":   feedURL,
			"error": err.Error(),
		})
	}
}

func (s *FeedService) dropCachedFeed(ctx context.Context, feedURL string) {
	if s.deps.Cache == nil {
		return
	}
	_ = s.deps.Cache.Delete(ctx, feedCacheKey(feedURL))
}
