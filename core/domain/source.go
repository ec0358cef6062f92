// ABOUTME: Source domain model describes one configured feed (the SourceDescriptor)
// ABOUTME: Provides validation used by import and add-source flows

package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Source is a configured syndicated feed
type Source struct {
	// Name identifies the source and selects its normalization handler
	Name string `json:"name"`

	// URL is the opaque fetch target
	URL string `json:"url"`

	// Icon is an optional display icon
	Icon *string `json:"icon,omitempty"`

	// Category groups sources for display
	Category string `json:"category"`

	// Active sources take part in ingestion runs
	Active bool `json:"active"`

	// LastFetch is when the source was last refreshed successfully
	LastFetch *time.Time `json:"last_fetch,omitempty"`
}

// Validate checks the required fields of a source
func (s *Source) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("source name cannot be empty")
	}

	if strings.TrimSpace(s.Category) == "" {
		return errors.New("source category cannot be empty")
	}

	if s.URL == "" {
		return errors.New("source URL cannot be empty")
	}

	parsedURL, err := url.Parse(s.URL)
	if err != nil || parsedURL.Host == "" {
		return errors.New("source URL is not valid format")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("source URL must use http or https")
	}

	return nil
}

// NormalizedURL returns the URL used to detect duplicate sources
func (s *Source) NormalizedURL() string {
	u := strings.ToLower(strings.TrimSpace(s.URL))
	return strings.TrimSuffix(u, "/")
}
