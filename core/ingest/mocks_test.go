package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"techpulse-app/core/domain"
)

// mockFetcher is a mock implementation of EntryFetcher
type mockFetcher struct {
	fetchFunc func(ctx context.Context, source domain.Source) ([]*domain.RawEntry, error)
}

func (m *mockFetcher) FetchEntries(ctx context.Context, source domain.Source) ([]*domain.RawEntry, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, source)
	}
	return nil, nil
}

// mockTagger records what it was asked to tag
type mockTagger struct {
	mu    sync.Mutex
	calls []string
	tags  []domain.Tag
}

func (m *mockTagger) Generate(ctx context.Context, title, content string, existing []domain.Tag) []domain.Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, title+"|"+content)
	return m.tags
}

// memoryArticleStore upserts by ID like the real stores
type memoryArticleStore struct {
	mu       sync.Mutex
	articles map[string]*domain.Article
	batches  int
	failFor  map[string]error
}

func newMemoryArticleStore() *memoryArticleStore {
	return &memoryArticleStore{articles: make(map[string]*domain.Article), failFor: make(map[string]error)}
}

func (s *memoryArticleStore) SaveArticles(ctx context.Context, articles []*domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range articles {
		if err, ok := s.failFor[a.Source]; ok {
			return err
		}
	}
	s.batches++
	for _, a := range articles {
		s.articles[a.ID] = a
	}
	return nil
}

func (s *memoryArticleStore) DeleteArticlesCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (s *memoryArticleStore) DeleteArticlesWithoutSource(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *memoryArticleStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}

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
