package tagging

import (
	"context"
	"sync"
	"time"

	"techpulse-app/core/interfaces"
)

// mockEntityExtractor is a mock implementation of the EntityExtractor interface
type mockEntityExtractor struct {
	extractFunc func(ctx context.Context, text string) ([]interfaces.Entity, error)
	calls       int
	lastText    string
}

func (m *mockEntityExtractor) ExtractEntities(ctx context.Context, text string) ([]interfaces.Entity, error) {
	m.calls++
	m.lastText = text
	if m.extractFunc != nil {
		return m.extractFunc(ctx, text)
	}
	return nil, nil
}

// mockPhraseExtractor is a mock implementation of the PhraseRelevanceExtractor interface
type mockPhraseExtractor struct {
	extractFunc func(ctx context.Context, text string, topN int) ([]interfaces.ScoredPhrase, error)
	calls       int
	lastText    string
	lastTopN    int
}

func (m *mockPhraseExtractor) ExtractPhrases(ctx context.Context, text string, topN int) ([]interfaces.ScoredPhrase, error) {
	m.calls++
	m.lastText = text
	m.lastTopN = topN
	if m.extractFunc != nil {
		return m.extractFunc(ctx, text, topN)
	}
	return nil, nil
}

// mapCache is an in-memory Cache for decorator tests
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, interfaces.ErrCacheMiss
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// countingMetrics records tag candidate counts per strategy
type countingMetrics struct {
	interfaces.NopMetrics
	mu         sync.Mutex
	candidates map[string]int
}

func (m *countingMetrics) TagCandidates(strategy string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.candidates == nil {
		m.candidates = make(map[string]int)
	}
	m.candidates[strategy] += n
}

// warnCounter counts warnings
type warnCounter struct {
	interfaces.NopLogger
	mu    sync.Mutex
	warns int
}

func (l *warnCounter) Warn(string, map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns++
}
