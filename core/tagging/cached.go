// ABOUTME: Cache decorators for the semantic extractors
// ABOUTME: Model results are keyed by a digest of the input text and reused across refreshes

package tagging

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"techpulse-app/core/interfaces"
)

// DefaultExtractionTTL is how long a model answer stays cached
const DefaultExtractionTTL = 24 * time.Hour

// CachedEntityExtractor serves repeated texts from cache
type CachedEntityExtractor struct {
	next   interfaces.EntityExtractor
	cache  interfaces.Cache
	ttl    time.Duration
	logger interfaces.Logger
}

// NewCachedEntityExtractor wraps next; a nil cache returns next unchanged
func NewCachedEntityExtractor(next interfaces.EntityExtractor, cache interfaces.Cache, ttl time.Duration, logger interfaces.Logger) interfaces.EntityExtractor {
	if next == nil || cache == nil {
		return next
	}
	return &CachedEntityExtractor{next: next, cache: cache, ttl: ttl, logger: interfaces.LoggerOrNop(logger)}
}

// ExtractEntities implements interfaces.EntityExtractor
func (c *CachedEntityExtractor) ExtractEntities(ctx context.Context, text string) ([]interfaces.Entity, error) {
	key := extractionKey("entities", text, 0)

	var cached []interfaces.Entity
	if readCached(ctx, c.cache, key, &cached, c.logger) {
		return cached, nil
	}

	entities, err := c.next.ExtractEntities(ctx, text)
	if err != nil {
		return nil, err
	}
	writeCached(ctx, c.cache, key, entities, c.ttl, c.logger)
	return entities, nil
}

// CachedPhraseExtractor serves repeated texts from cache
type CachedPhraseExtractor struct {
	next   interfaces.PhraseRelevanceExtractor
	cache  interfaces.Cache
	ttl    time.Duration
	logger interfaces.Logger
}

// NewCachedPhraseExtractor wraps next; a nil cache returns next unchanged
func NewCachedPhraseExtractor(next interfaces.PhraseRelevanceExtractor, cache interfaces.Cache, ttl time.Duration, logger interfaces.Logger) interfaces.PhraseRelevanceExtractor {
	if next == nil || cache == nil {
		return next
	}
	return &CachedPhraseExtractor{next: next, cache: cache, ttl: ttl, logger: interfaces.LoggerOrNop(logger)}
}

// ExtractPhrases implements interfaces.PhraseRelevanceExtractor
func (c *CachedPhraseExtractor) ExtractPhrases(ctx context.Context, text string, topN int) ([]interfaces.ScoredPhrase, error) {
	key := extractionKey("phrases", text, topN)

	var cached []interfaces.ScoredPhrase
	if readCached(ctx, c.cache, key, &cached, c.logger) {
		return cached, nil
	}

	phrases, err := c.next.ExtractPhrases(ctx, text, topN)
	if err != nil {
		return nil, err
	}
	writeCached(ctx, c.cache, key, phrases, c.ttl, c.logger)
	return phrases, nil
}

func extractionKey(kind, text string, n int) string {
	sum := sha256.Sum256([]byte(text))
	return "tags:" + kind + ":" + strconv.Itoa(n) + ":" + hex.EncodeToString(sum[:])
}

func readCached(ctx context.Context, cache interfaces.Cache, key string, dst interface{}, logger interfaces.Logger) bool {
	data, err := cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			logger.Warn("Extraction cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false
	}
	return true
}

func writeCached(ctx context.Context, cache interfaces.Cache, key string, value interface{}, ttl time.Duration, logger interfaces.Logger) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("Extraction cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
