package sources

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"techpulse-app/core/domain"
	"techpulse-app/core/ingest"
)

// mockSourceStore is a testify mock of interfaces.SourceStore
type mockSourceStore struct {
	mock.Mock
}

func (m *mockSourceStore) SaveSource(ctx context.Context, source *domain.Source) error {
	return m.Called(ctx, source).Error(0)
}

func (m *mockSourceStore) GetSource(ctx context.Context, name string) (*domain.Source, error) {
	args := m.Called(ctx, name)
	src, _ := args.Get(0).(*domain.Source)
	return src, args.Error(1)
}

func (m *mockSourceStore) ListSources(ctx context.Context, activeOnly bool) ([]*domain.Source, error) {
	args := m.Called(ctx, activeOnly)
	list, _ := args.Get(0).([]*domain.Source)
	return list, args.Error(1)
}

func (m *mockSourceStore) SetActive(ctx context.Context, name string, active bool) error {
	return m.Called(ctx, name, active).Error(0)
}

func (m *mockSourceStore) MarkFetched(ctx context.Context, name string, at time.Time) error {
	return m.Called(ctx, name, at).Error(0)
}

func (m *mockSourceStore) DeleteSource(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// mockArticleStore is a testify mock of interfaces.ArticleStore
type mockArticleStore struct {
	mock.Mock
}

func (m *mockArticleStore) SaveArticles(ctx context.Context, articles []*domain.Article) error {
	return m.Called(ctx, articles).Error(0)
}

func (m *mockArticleStore) DeleteArticlesCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockArticleStore) DeleteArticlesWithoutSource(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// mockFetcher is a mock implementation of ingest.EntryFetcher
type mockFetcher struct {
	fetchFunc func(ctx context.Context, source domain.Source) ([]*domain.RawEntry, error)
}

func (m *mockFetcher) FetchEntries(ctx context.Context, source domain.Source) ([]*domain.RawEntry, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, source)
	}
	return nil, nil
}

// mockRunner records RunSource calls
type mockRunner struct {
	calls  []string
	limits []int
	result ingest.SourceResult
}

func (m *mockRunner) RunSource(ctx context.Context, source domain.Source, maxArticles int) ingest.SourceResult {
	m.calls = append(m.calls, source.Name)
	m.limits = append(m.limits, maxArticles)
	res := m.result
	res.Source = source.Name
	return res
}
