// ABOUTME: RawEntry domain model is one feed entry in its source-native shape
// ABOUTME: Decoders fill it from RSS, Atom or JSON feeds before normalization

package domain

import "strings"

// RawEntry represents an individual entry as published by a feed
type RawEntry struct {
	// ID is the native entry identifier (RSS guid, Atom id)
	ID string

	// Title is the entry headline
	Title string

	// Link is the URL to the full article
	Link string

	// Published is the raw publish date string
	Published string

	// Description is the raw summary markup
	Description string

	// EncodedContent holds content:encoded style full markup
	EncodedContent string

	// Contents are typed content blocks in document order
	Contents []ContentBlock

	// Terms are the feed-native tags (RSS category, Atom category term)
	Terms []string

	// Categories are secondary subject labels (dc:subject)
	Categories []string

	// Media are media:content / media:thumbnail attachments
	Media []MediaAttachment

	// Enclosures are RSS enclosures or Atom enclosure links
	Enclosures []Enclosure
}

// ContentBlock is a piece of entry content with its declared media type
type ContentBlock struct {
	Type  string
	Value string
}

// IsHTML reports whether the block declares an HTML media type
func (b ContentBlock) IsHTML() bool {
	switch strings.ToLower(strings.TrimSpace(b.Type)) {
	case "text/html", "html", "xhtml", "application/xhtml+xml":
		return true
	}
	return false
}

// MediaAttachment is a media RSS attachment
type MediaAttachment struct {
	URL  string // Media file URL
	Type string // MIME type, may be empty
}

// Enclosure represents media attachment information
type Enclosure struct {
	URL    string // Media file URL
	Length string // File size in bytes
	Type   string // MIME type
}

// Identifier returns the value the article ID is derived from
func (e *RawEntry) Identifier() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Link
}
