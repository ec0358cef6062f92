package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
	"techpulse-app/core/interfaces"
)

var (
	_ interfaces.ArticleStore = (*Store)(nil)
	_ interfaces.SourceStore  = (*Store)(nil)
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "techpulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func article(id, source string) *domain.Article {
	content := "Full body about kubernetes"
	return &domain.Article{
		ID:          id,
		Title:       "Title " + id,
		Link:        "https://example.com/" + id,
		PublishedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Description: "Summary",
		Content:     &content,
		Source:      source,
		Tags:        []domain.Tag{{Name: "Kubernetes", Confidence: 0.7}},
	}
}

func TestSaveArticles_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return created }

	a := article("a1", "AWS")
	require.NoError(t, s.SaveArticles(ctx, []*domain.Article{a}))

	got, err := s.GetArticle(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.Title, got.Title)
	assert.True(t, a.PublishedAt.Equal(got.PublishedAt))
	require.NotNil(t, got.Content)
	assert.Equal(t, *a.Content, *got.Content)
	assert.Nil(t, got.ImageURL)
	assert.Equal(t, a.Tags, got.Tags)
	assert.True(t, got.CreatedAt.Equal(created))

	missing, err := s.GetArticle(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveArticles_UpsertRefreshesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return first }
	require.NoError(t, s.SaveArticles(ctx, []*domain.Article{article("a1", "AWS")}))

	second := first.Add(48 * time.Hour)
	s.now = func() time.Time { return second }
	updated := article("a1", "AWS")
	updated.Title = "Updated"
	require.NoError(t, s.SaveArticles(ctx, []*domain.Article{updated}))

	n, err := s.CountArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.GetArticle(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)
	assert.True(t, got.CreatedAt.Equal(second))
}

func TestSaveArticles_InvalidBatchWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bad := article("", "AWS")
	err := s.SaveArticles(ctx, []*domain.Article{article("a1", "AWS"), bad})
	assert.True(t, coreerrors.IsValidation(err))

	n, _ := s.CountArticles(ctx)
	assert.Zero(t, n)
}

func TestSaveArticles_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.SaveArticles(ctx, []*domain.Article{article("same", "AWS")}))
		}()
	}
	wg.Wait()

	n, _ := s.CountArticles(ctx)
	assert.Equal(t, int64(1), n)
}

func TestDeleteArticlesCreatedBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	require.NoError(t, s.SaveArticles(ctx, []*domain.Article{article("old", "AWS")}))
	s.now = func() time.Time { return base.Add(40 * 24 * time.Hour) }
	require.NoError(t, s.SaveArticles(ctx, []*domain.Article{article("new", "AWS")}))

	n, err := s.DeleteArticlesCreatedBefore(ctx, base.Add(10*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, _ := s.GetArticle(ctx, "old")
	assert.Nil(t, old)
	fresh, _ := s.GetArticle(ctx, "new")
	assert.NotNil(t, fresh)
}

func TestSources_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	icon := "https://aws.amazon.com/favicon.ico"

	require.NoError(t, s.SaveSource(ctx, &domain.Source{Name: "Azure", URL: "https://azure.example.com/feed", Category: "cloud", Active: false}))
	require.NoError(t, s.SaveSource(ctx, &domain.Source{Name: "AWS", URL: "https://aws.example.com/feed", Icon: &icon, Category: "cloud", Active: true}))

	all, err := s.ListSources(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AWS", all[0].Name)
	require.NotNil(t, all[0].Icon)
	assert.Equal(t, icon, *all[0].Icon)

	active, err := s.ListSources(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "AWS", active[0].Name)

	fetched := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.MarkFetched(ctx, "AWS", fetched))
	require.NoError(t, s.SetActive(ctx, "AWS", false))

	got, err := s.GetSource(ctx, "AWS")
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.LastFetch)
	assert.True(t, got.LastFetch.Equal(fetched))

	// Re-saving without LastFetch keeps the recorded time
	require.NoError(t, s.SaveSource(ctx, &domain.Source{Name: "AWS", URL: "https://aws.example.com/feed", Category: "cloud", Active: true}))
	got, _ = s.GetSource(ctx, "AWS")
	require.NotNil(t, got.LastFetch)
	assert.Nil(t, got.Icon)

	assert.True(t, coreerrors.IsNotFound(s.SetActive(ctx, "Ghost", false)))
	assert.True(t, coreerrors.IsNotFound(s.MarkFetched(ctx, "Ghost", fetched)))

	missing, err := s.GetSource(ctx, "Ghost")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteArticlesWithoutSource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSource(ctx, &domain.Source{Name: "AWS", URL: "https://aws.example.com/feed", Category: "cloud", Active: true}))
	require.NoError(t, s.SaveSource(ctx, &domain.Source{Name: "AWS News", URL: "https://aws.example.com/feed/", Category: "cloud", Active: true}))
	require.NoError(t, s.SaveArticles(ctx, []*domain.Article{article("a1", "AWS"), article("a2", "AWS News")}))

	require.NoError(t, s.DeleteSource(ctx, "AWS News"))
	n, err := s.DeleteArticlesWithoutSource(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	kept, _ := s.GetArticle(ctx, "a1")
	assert.NotNil(t, kept)
}
