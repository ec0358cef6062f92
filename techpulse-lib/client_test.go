package techpulse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
	"techpulse-app/core/interfaces"
	httpInfra "techpulse-app/infrastructure/http/standard"
)

const rssFeed = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
  <title>Example</title>
  <item>
    <guid>one</guid>
    <title>Scaling Kubernetes clusters</title>
    <link>https://example.com/one</link>
    <pubDate>Tue, 02 Jan 2024 03:04:05 GMT</pubDate>
    <description><![CDATA[<p>Running <b>kubernetes</b> in production</p>]]></description>
  </item>
  <item>
    <guid>two</guid>
    <title>Serverless functions at scale</title>
    <link>https://example.com/two</link>
    <pubDate>Wed, 03 Jan 2024 03:04:05 GMT</pubDate>
    <description>Deploying serverless workloads</description>
  </item>
</channel>
</rss>`

type fakeEntities struct {
	entities []interfaces.Entity
}

func (f *fakeEntities) ExtractEntities(ctx context.Context, text string) ([]interfaces.Entity, error) {
	return f.entities, nil
}

func feedServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(rssFeed))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithQuietMode(),
		WithCacheOption(CacheOption{Type: CacheTypeNone}),
		WithHTTPClient(httpInfra.NewStandardHTTPClient(5*time.Second, httpInfra.WithRetries(1))),
	}
	client, err := NewClient(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(WithHTTPClient(nil))
	require.Error(t, err)
	var libErr *Error
	require.True(t, errors.As(err, &libErr))
	assert.Equal(t, ErrorTypeConfiguration, libErr.Type)

	_, err = NewClient(WithPoolSize(0))
	assert.Error(t, err)

	_, err = NewClient(WithCacheOption(CacheOption{Type: "bogus"}))
	assert.Error(t, err)
}

func TestClient_CleanContent(t *testing.T) {
	client := newTestClient(t)
	got := client.CleanContent("<p>Hello <b>world</b></p>")
	assert.Contains(t, got, "Hello")
	assert.Contains(t, got, "world")
	assert.NotContains(t, got, "<")
}

func TestClient_Normalize(t *testing.T) {
	client := newTestClient(t)

	article, err := client.Normalize("Example", &RawEntry{
		ID:          "guid-1",
		Title:       "Hello",
		Link:        "https://example.com/hello",
		Description: "<p>Body</p>",
		Published:   "2024-01-02T03:04:05Z",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ArticleID("Example", "guid-1"), article.ID)
	assert.Equal(t, "Example", article.Source)
	assert.Equal(t, 2024, article.PublishedAt.Year())
}

func TestClient_GenerateTags(t *testing.T) {
	client := newTestClient(t, WithEntityExtractor(&fakeEntities{
		entities: []interfaces.Entity{{Text: "Acme Robotics", Class: "ORG"}},
	}))

	tags := client.GenerateTags(context.Background(), "Acme Robotics ships", "Acme Robotics runs kubernetes in production", nil)
	require.NotEmpty(t, tags)
	assert.LessOrEqual(t, len(tags), MaxTags)
	assert.True(t, domain.TagList(tags).Contains("Acme Robotics"), "entity tag missing from %v", tags)
}

func TestClient_FetchArticles(t *testing.T) {
	srv := feedServer(t, http.StatusOK)
	client := newTestClient(t)

	articles, err := client.FetchArticles(context.Background(), Source{Name: "Example", URL: srv.URL, Category: "cloud"})
	require.NoError(t, err)
	require.Len(t, articles, 2)
	for _, a := range articles {
		assert.Equal(t, "Example", a.Source)
		assert.False(t, strings.Contains(a.Description, "<"), "description not cleaned: %q", a.Description)
	}
	assert.True(t, domain.TagList(articles[0].Tags).Contains("kubernetes"), "tags: %v", articles[0].Tags)
}

func TestClient_FetchArticles_Errors(t *testing.T) {
	client := newTestClient(t)

	_, err := client.FetchArticles(context.Background(), Source{Name: "Bad", URL: "not a url", Category: "cloud"})
	assert.True(t, IsValidationError(err), "got %v", err)

	srv := feedServer(t, http.StatusInternalServerError)
	_, err = client.FetchArticles(context.Background(), Source{Name: "Down", URL: srv.URL, Category: "cloud"})
	assert.True(t, IsNetworkError(err), "got %v", err)
}

func TestClient_Ingest(t *testing.T) {
	srv := feedServer(t, http.StatusOK)

	storeless := newTestClient(t)
	_, err := storeless.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoArticleStore)

	client := newTestClient(t, WithSQLiteStore(filepath.Join(t.TempDir(), "articles.db")))
	result, err := client.Ingest(context.Background(), []Source{
		{Name: "Example", URL: srv.URL, Category: "cloud", Active: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SourcesProcessed)
	assert.Equal(t, 2, result.ArticlesProduced)
}

func TestClassify(t *testing.T) {
	assert.True(t, IsNetworkError(classify(&coreerrors.FetchError{Source: "a", StatusCode: 500})))
	assert.True(t, IsValidationError(classify(&coreerrors.ValidationError{Field: "url"})))
	assert.True(t, IsNotFoundError(classify(&coreerrors.NotFoundError{Resource: "source", ID: "a"})))
	assert.True(t, IsStorageError(classify(&coreerrors.StoreError{Op: "save", Err: errors.New("disk")})))
	assert.Equal(t, ErrorTypeInternal, classify(errors.New("boom")).Type)
}
