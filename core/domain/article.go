// ABOUTME: Article domain model is the canonical, source-agnostic record for one feed entry
// ABOUTME: Provides the deterministic identity function and validation

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Article is the normalized representation of a single feed entry
type Article struct {
	// ID is a deterministic hash of the source name and the entry identifier
	ID string `json:"id"`

	// Title is the entry headline
	Title string `json:"title"`

	// Link points at the original article
	Link string `json:"link"`

	// PublishedAt is always set; it falls back to processing time
	PublishedAt time.Time `json:"pub_date"`

	// Description is the cleaned summary text
	Description string `json:"description"`

	// Content is the cleaned full text, nil when no content was derivable
	Content *string `json:"content,omitempty"`

	// Source is the SourceDescriptor name the entry came from
	Source string `json:"source"`

	// Tags is ordered by descending confidence and bounded by MaxArticleTags
	Tags []Tag `json:"tags"`

	// ImageURL is the first image found for the entry
	ImageURL *string `json:"image_url,omitempty"`

	// CreatedAt is assigned by the store on upsert and drives retention
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ArticleID derives the stable identifier for an entry of a source
func ArticleID(sourceName, entryIdentifier string) string {
	sum := sha256.Sum256([]byte(sourceName + ":" + entryIdentifier))
	return hex.EncodeToString(sum[:])
}

// HasTags reports whether the article already carries any tag
func (a *Article) HasTags() bool {
	return len(a.Tags) > 0
}

// TaggingText returns the body used for tag generation: content when present, else description
func (a *Article) TaggingText() string {
	if a.Content != nil && *a.Content != "" {
		return *a.Content
	}
	return a.Description
}

// Validate checks the invariants a store relies on
func (a *Article) Validate() error {
	if a.ID == "" {
		return errors.New("article ID cannot be empty")
	}
	if a.Source == "" {
		return errors.New("article source cannot be empty")
	}
	if a.PublishedAt.IsZero() {
		return errors.New("article publish date cannot be zero")
	}
	if len(a.Tags) > MaxArticleTags {
		return errors.New("article has too many tags")
	}
	return nil
}
