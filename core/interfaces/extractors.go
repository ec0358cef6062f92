// ABOUTME: Semantic extractor interfaces for the optional model-backed tag strategies
// ABOUTME: A nil extractor means the model is unavailable; the tag engine never invokes it

package interfaces

import "context"

// Entity is a named entity recognized in text
type Entity struct {
	Text  string `json:"text"`
	Class string `json:"class"` // ORG, PRODUCT, GPE, LOC, PERSON, WORK_OF_ART, EVENT
}

// ScoredPhrase is a key phrase with its model relevance score
type ScoredPhrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// EntityExtractor recognizes named entities.
// Implementations must be safe for concurrent use.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) ([]Entity, error)
}

// PhraseRelevanceExtractor ranks one- and two-word key phrases of a text.
// Implementations must be safe for concurrent use.
type PhraseRelevanceExtractor interface {
	ExtractPhrases(ctx context.Context, text string, topN int) ([]ScoredPhrase, error)
}
