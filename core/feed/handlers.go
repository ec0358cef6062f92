// ABOUTME: Per-source handler variants override how content and native tags are extracted
// ABOUTME: The set is closed: default, aws, azure and google, selected by source name

package feed

import (
	"strings"

	"techpulse-app/core/domain"
)

// Handler customizes the source-specific steps of normalization
type Handler interface {
	// Name is the variant name
	Name() string

	// ContentMarkup returns the raw markup the article content is cleaned from
	ContentMarkup(entry *domain.RawEntry) string

	// NativeTags maps feed-declared tags to confidence 1.0 tags
	NativeTags(entry *domain.RawEntry) []domain.Tag
}

type defaultHandler struct{}

func (defaultHandler) Name() string { return "default" }

// ContentMarkup prefers the first HTML content block, then the raw description
func (defaultHandler) ContentMarkup(entry *domain.RawEntry) string {
	for _, block := range entry.Contents {
		if block.IsHTML() && strings.TrimSpace(block.Value) != "" {
			return block.Value
		}
	}
	return entry.Description
}

func (defaultHandler) NativeTags(entry *domain.RawEntry) []domain.Tag {
	return termsToTags(entry.Terms)
}

// awsHandler reads content:encoded first and dc:subject when no terms exist
type awsHandler struct{ defaultHandler }

func (awsHandler) Name() string { return "aws" }

func (h awsHandler) ContentMarkup(entry *domain.RawEntry) string {
	if strings.TrimSpace(entry.EncodedContent) != "" {
		return entry.EncodedContent
	}
	return h.defaultHandler.ContentMarkup(entry)
}

func (awsHandler) NativeTags(entry *domain.RawEntry) []domain.Tag {
	if len(entry.Terms) > 0 {
		return termsToTags(entry.Terms)
	}
	return termsToTags(entry.Categories)
}

// azureHandler never trusts feed categories; description stands in as content
type azureHandler struct{ defaultHandler }

func (azureHandler) Name() string { return "azure" }

func (azureHandler) NativeTags(*domain.RawEntry) []domain.Tag { return nil }

type googleHandler struct{ defaultHandler }

func (googleHandler) Name() string { return "google" }

var handlers = map[string]Handler{
	"aws":    awsHandler{},
	"azure":  azureHandler{},
	"google": googleHandler{},
}

// HandlerFor selects the variant whose name equals the source name, ignoring case.
// Unknown names get the default handler.
func HandlerFor(sourceName string) Handler {
	if h, ok := handlers[strings.ToLower(strings.TrimSpace(sourceName))]; ok {
		return h
	}
	return defaultHandler{}
}

func termsToTags(terms []string) []domain.Tag {
	if len(terms) == 0 {
		return nil
	}
	tags := make(domain.TagList, 0, len(terms))
	for _, term := range terms {
		tags = append(tags, domain.NewTag(strings.TrimSpace(term), 1.0))
	}
	return tags.Dedupe()
}
