// ABOUTME: Ingestion pipeline runs fetch, normalize, tag and store for a batch of sources
// ABOUTME: Sources are processed on a bounded worker pool and fail independently

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
	"techpulse-app/core/feed"
	"techpulse-app/core/interfaces"
)

const (
	// DefaultPoolSize bounds how many sources are processed at once
	DefaultPoolSize = 8

	// DefaultSourceTimeout is the deadline for one source's fetch-to-store sequence
	DefaultSourceTimeout = 60 * time.Second
)

// ErrArticleStoreRequired is returned when no article store is given
var ErrArticleStoreRequired = errors.New("ingest: article store is required")

// EntryFetcher fetches the raw entries of a source
type EntryFetcher interface {
	FetchEntries(ctx context.Context, source domain.Source) ([]*domain.RawEntry, error)
}

// Tagger generates tags for an article's text
type Tagger interface {
	Generate(ctx context.Context, title, content string, existing []domain.Tag) []domain.Tag
}

// SourceResult is the outcome for a single source
type SourceResult struct {
	Source   string        `json:"source"`
	Articles int           `json:"articles"`
	Skipped  bool          `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Failed reports whether the source contributed nothing because of an error
func (r SourceResult) Failed() bool {
	return r.Err != nil
}

// Result aggregates one pipeline run
type Result struct {
	RunID            string         `json:"run_id"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
	SourcesProcessed int            `json:"sources_processed"`
	SourcesFailed    int            `json:"sources_failed"`
	SourcesSkipped   int            `json:"sources_skipped"`
	ArticlesProduced int            `json:"articles_produced"`
	PerSource        []SourceResult `json:"per_source"`
}

// Pipeline orchestrates ingestion for batches of sources
type Pipeline struct {
	fetcher       EntryFetcher
	normalizer    *feed.Normalizer
	tagger        Tagger
	articles      interfaces.ArticleStore
	sources       interfaces.SourceStore
	pool          *ants.Pool
	sourceTimeout time.Duration
	logger        interfaces.Logger
	metrics       interfaces.Metrics
	now           func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline) error

// WithPoolSize sets how many sources are processed concurrently
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithSourceTimeout sets the per-source deadline; zero disables it
func WithSourceTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		p.sourceTimeout = d
		return nil
	}
}

// WithSourceStore records the last fetch time of every successful source
func WithSourceStore(store interfaces.SourceStore) Option {
	return func(p *Pipeline) error {
		p.sources = store
		return nil
	}
}

// NewPipeline creates a pipeline. tagger may be nil, in which case
// articles keep only their native tags.
func NewPipeline(
	deps interfaces.Dependencies,
	fetcher EntryFetcher,
	normalizer *feed.Normalizer,
	tagger Tagger,
	articles interfaces.ArticleStore,
	opts ...Option,
) (*Pipeline, error) {
	if fetcher == nil {
		return nil, errors.New("ingest: fetcher is required")
	}
	if articles == nil {
		return nil, ErrArticleStoreRequired
	}
	if normalizer == nil {
		normalizer = feed.NewNormalizer(deps)
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		fetcher:       fetcher,
		normalizer:    normalizer,
		tagger:        tagger,
		articles:      articles,
		pool:          pool,
		sourceTimeout: DefaultSourceTimeout,
		logger:        interfaces.LoggerOrNop(deps.Logger),
		metrics:       interfaces.MetricsOrNop(deps.Metrics),
		now:           func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Release frees the worker pool
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Run ingests every active source of the batch. Fetch failures are counted,
// never returned; store failures are joined into the returned error after all
// sources finish.
func (p *Pipeline) Run(ctx context.Context, sources []domain.Source) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
		PerSource: make([]SourceResult, len(sources)),
	}

	p.logger.Info("Ingestion run started", map[string]interface{}{
		"run_id":  result.RunID,
		"sources": len(sources),
	})

	var wg sync.WaitGroup
	for i := range sources {
		src := sources[i]
		if !src.Active {
			result.PerSource[i] = SourceResult{Source: src.Name, Skipped: true}
			continue
		}

		idx := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			result.PerSource[idx] = p.RunSource(ctx, src, 0)
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			result.PerSource[idx] = SourceResult{Source: src.Name, Err: fmt.Errorf("submit: %w", err)}
		}
	}
	wg.Wait()

	var storeErrs []error
	for _, sr := range result.PerSource {
		switch {
		case sr.Skipped:
			result.SourcesSkipped++
		case sr.Failed():
			result.SourcesFailed++
			if coreerrors.IsStore(sr.Err) {
				storeErrs = append(storeErrs, sr.Err)
			}
		default:
			result.SourcesProcessed++
			result.ArticlesProduced += sr.Articles
		}
	}
	result.FinishedAt = p.now()

	p.logger.Info("Ingestion run finished", map[string]interface{}{
		"run_id":            result.RunID,
		"sources_processed": result.SourcesProcessed,
		"sources_failed":    result.SourcesFailed,
		"sources_skipped":   result.SourcesSkipped,
		"articles":          result.ArticlesProduced,
		"duration_ms":       result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	})

	if err := ctx.Err(); err != nil {
		storeErrs = append(storeErrs, err)
	}
	return result, errors.Join(storeErrs...)
}

// RunActive lists the active sources from the source store and runs them
func (p *Pipeline) RunActive(ctx context.Context) (*Result, error) {
	if p.sources == nil {
		return nil, errors.New("ingest: source store not configured")
	}
	list, err := p.sources.ListSources(ctx, true)
	if err != nil {
		return nil, &coreerrors.StoreError{Op: "list sources", Err: err}
	}
	sources := make([]domain.Source, 0, len(list))
	for _, s := range list {
		if s != nil {
			sources = append(sources, *s)
		}
	}
	return p.Run(ctx, sources)
}

// RunSource processes one source regardless of its active flag. maxArticles
// limits how many normalized entries are kept; zero keeps all.
func (p *Pipeline) RunSource(ctx context.Context, source domain.Source, maxArticles int) SourceResult {
	start := time.Now()
	res := SourceResult{Source: source.Name}

	if p.sourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.sourceTimeout)
		defer cancel()
	}

	articles, err := p.Collect(ctx, source, maxArticles)
	if err == nil {
		err = p.save(ctx, source, articles)
	}

	res.Duration = time.Since(start)
	p.metrics.SourceDuration(source.Name, res.Duration)

	if err != nil {
		res.Err = err
		p.metrics.SourceFailed(source.Name)
		p.logger.Error("Source ingestion failed", map[string]interface{}{
			"source": source.Name,
			"url":    source.URL,
			"error":  err.Error(),
		})
		return res
	}

	res.Articles = len(articles)
	p.metrics.SourceProcessed(source.Name, res.Articles)
	p.logger.Info("Source ingested", map[string]interface{}{
		"source":      source.Name,
		"articles":    res.Articles,
		"duration_ms": res.Duration.Milliseconds(),
	})
	return res
}

// Collect fetches, normalizes and tags up to maxArticles articles of a source
// without saving them; nothing escapes a cancelled run
func (p *Pipeline) Collect(ctx context.Context, source domain.Source, maxArticles int) ([]*domain.Article, error) {
	entries, err := p.fetcher.FetchEntries(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := p.normalizer.NormalizeEntries(source.Name, entries)

	seen := make(map[string]struct{}, len(normalized))
	articles := make([]*domain.Article, 0, len(normalized))
	for _, article := range normalized {
		if _, dup := seen[article.ID]; dup {
			continue
		}
		seen[article.ID] = struct{}{}
		articles = append(articles, article)
		if maxArticles > 0 && len(articles) == maxArticles {
			break
		}
	}

	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.tagger != nil && !article.HasTags() {
			article.Tags = p.tagger.Generate(ctx, article.Title, article.TaggingText(), nil)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

func (p *Pipeline) save(ctx context.Context, source domain.Source, articles []*domain.Article) error {
	if len(articles) > 0 {
		if err := p.articles.SaveArticles(ctx, articles); err != nil {
			return &coreerrors.StoreError{Op: "save articles", Err: err}
		}
	}
	if p.sources != nil {
		if err := p.sources.MarkFetched(ctx, source.Name, p.now()); err != nil {
			p.logger.Warn("Failed to record fetch time", map[string]interface{}{
				"source": source.Name,
				"error":  err.Error(),
			})
		}
	}
	return nil
}
