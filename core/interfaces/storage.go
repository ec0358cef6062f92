// ABOUTME: Storage interfaces for persisting articles and sources
// ABOUTME: The core only hands finished records to these; it never queries them

package interfaces

import (
	"context"
	"time"

	"techpulse-app/core/domain"
)

// ArticleStore persists canonical articles
type ArticleStore interface {
	// SaveArticles upserts the batch atomically, keyed by Article.ID
	SaveArticles(ctx context.Context, articles []*domain.Article) error

	// DeleteArticlesCreatedBefore removes articles whose creation time is before cutoff
	DeleteArticlesCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteArticlesWithoutSource removes articles whose source no longer exists
	DeleteArticlesWithoutSource(ctx context.Context) (int64, error)
}

// SourceStore persists source descriptors, keyed by name
type SourceStore interface {
	// SaveSource upserts a source
	SaveSource(ctx context.Context, source *domain.Source) error

	// GetSource returns the source with the given name, or nil if absent
	GetSource(ctx context.Context, name string) (*domain.Source, error)

	// ListSources returns sources ordered by name
	ListSources(ctx context.Context, activeOnly bool) ([]*domain.Source, error)

	// SetActive flips the active flag of an existing source
	SetActive(ctx context.Context, name string, active bool) error

	// MarkFetched records the time of the last successful refresh
	MarkFetched(ctx context.Context, name string, at time.Time) error

	// DeleteSource removes a source record
	DeleteSource(ctx context.Context, name string) error
}
