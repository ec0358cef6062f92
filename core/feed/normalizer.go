// ABOUTME: Normalizer converts source-native feed entries into canonical articles
// ABOUTME: Derives identity, date, cleaned text and image; source handlers supply content and tags

package feed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
	"techpulse-app/core/interfaces"
	"techpulse-app/pkg/utils/html"
	timeutil "techpulse-app/pkg/utils/time"
)

// Normalizer builds Articles from RawEntries. It holds no per-call state
// and is safe for concurrent use.
type Normalizer struct {
	logger  interfaces.Logger
	metrics interfaces.Metrics
	now     func() time.Time
}

// NewNormalizer creates a normalizer logging through deps.Logger
func NewNormalizer(deps interfaces.Dependencies) *Normalizer {
	return &Normalizer{
		logger:  interfaces.LoggerOrNop(deps.Logger),
		metrics: interfaces.MetricsOrNop(deps.Metrics),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Normalize converts one entry of the named source into an Article.
// A malformed entry yields an *errors.EntryParseError and no article.
func (n *Normalizer) Normalize(sourceName string, entry *domain.RawEntry) (article *domain.Article, err error) {
	if entry == nil {
		return nil, &coreerrors.EntryParseError{Source: sourceName, Err: errors.New("nil entry")}
	}
	ident := entry.Identifier()

	defer func() {
		if r := recover(); r != nil {
			article = nil
			err = &coreerrors.EntryParseError{Source: sourceName, EntryID: ident, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if ident == "" && strings.TrimSpace(entry.Title) == "" && strings.TrimSpace(entry.Description) == "" &&
		len(entry.Contents) == 0 && entry.EncodedContent == "" {
		return nil, &coreerrors.EntryParseError{Source: sourceName, Err: errors.New("entry has no identifier, title or body")}
	}

	handler := HandlerFor(sourceName)

	article = &domain.Article{
		ID:          domain.ArticleID(sourceName, ident),
		Title:       strings.TrimSpace(entry.Title),
		Link:        strings.TrimSpace(entry.Link),
		PublishedAt: n.publishedAt(sourceName, entry),
		Description: html.Clean(entry.Description),
		Source:      sourceName,
	}

	markup := handler.ContentMarkup(entry)
	if content := html.Clean(markup); content != "" {
		article.Content = &content
	}

	article.Tags = handler.NativeTags(entry)
	if len(article.Tags) > domain.MaxArticleTags {
		article.Tags = article.Tags[:domain.MaxArticleTags]
	}

	if image := findImage(entry, markup); image != "" {
		article.ImageURL = &image
	}

	return article, nil
}

// NormalizeEntries normalizes every entry of a source, dropping the ones that fail
func (n *Normalizer) NormalizeEntries(sourceName string, entries []*domain.RawEntry) []*domain.Article {
	articles := make([]*domain.Article, 0, len(entries))
	for _, entry := range entries {
		article, err := n.Normalize(sourceName, entry)
		if err != nil {
			n.metrics.EntryDropped(sourceName)
			n.logger.Error("Dropping malformed entry", map[string]interface{}{
				"source": sourceName,
				"error":  err.Error(),
			})
			continue
		}
		articles = append(articles, article)
	}
	return articles
}

func (n *Normalizer) publishedAt(sourceName string, entry *domain.RawEntry) time.Time {
	if entry.Published != "" {
		if t, err := timeutil.ParseFlexible(entry.Published); err == nil {
			return t
		}
	}
	n.logger.Warn("Unparseable publish date, using processing time", map[string]interface{}{
		"source": sourceName,
		"entry":  entry.Identifier(),
		"value":  entry.Published,
	})
	return n.now()
}

// findImage walks media attachments, then enclosures, then the first <img> of the markup
func findImage(entry *domain.RawEntry, markup string) string {
	for _, m := range entry.Media {
		if m.URL != "" && isImageType(m.Type) {
			return m.URL
		}
	}
	for _, enc := range entry.Enclosures {
		if enc.URL != "" && isImageType(enc.Type) {
			return enc.URL
		}
	}
	if strings.TrimSpace(markup) == "" {
		markup = entry.Description
	}
	return html.FirstImageSrc(markup)
}

func isImageType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}
