// ABOUTME: Tag domain model represents a topical label with a confidence score
// ABOUTME: Provides clamping and case-insensitive de-duplication for tag lists

package domain

import "strings"

// MaxArticleTags bounds the number of tags stored on an article
const MaxArticleTags = 10

// Tag is a named topical label attached to an article
type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// NewTag creates a tag with its confidence clamped to [0,1]
func NewTag(name string, confidence float64) Tag {
	return Tag{Name: name, Confidence: ClampConfidence(confidence)}
}

// ClampConfidence bounds a score to the [0,1] interval
func ClampConfidence(c float64) float64 {
	if c != c { // NaN
		return 0
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Key returns the case-insensitive identity of the tag
func (t Tag) Key() string {
	return strings.ToLower(strings.TrimSpace(t.Name))
}

// TagList is an ordered list of tags
type TagList []Tag

// Contains reports whether a tag with the given name exists, ignoring case
func (l TagList) Contains(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, t := range l {
		if t.Key() == key {
			return true
		}
	}
	return false
}

// Dedupe returns a copy keeping the first occurrence of each name.
// Empty names are dropped and confidences are clamped.
func (l TagList) Dedupe() TagList {
	seen := make(map[string]struct{}, len(l))
	out := make(TagList, 0, len(l))
	for _, t := range l {
		key := t.Key()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, NewTag(t.Name, t.Confidence))
	}
	return out
}
