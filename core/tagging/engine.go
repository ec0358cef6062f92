// ABOUTME: Tag engine runs every tag strategy in a fixed order and merges the candidates
// ABOUTME: Output is case-insensitively unique, sorted by confidence and bounded

package tagging

import (
	"context"
	"sort"
	"strings"

	"techpulse-app/core/domain"
	"techpulse-app/core/interfaces"
	"techpulse-app/pkg/featureflags"
)

// Strategy names reported to metrics
const (
	StrategySeed      = "seed"
	StrategyKeyword   = "keyword"
	StrategyFrequency = "frequency"
	StrategyEntity    = "entity"
	StrategyPhrase    = "phrase"
)

// Engine generates tags for articles. It is safe for concurrent use.
type Engine struct {
	entities interfaces.EntityExtractor
	phrases  interfaces.PhraseRelevanceExtractor
	flags    featureflags.Manager
	logger   interfaces.Logger
	metrics  interfaces.Metrics
}

// Option configures an Engine
type Option func(*Engine)

// WithEntityExtractor enables the named-entity strategy
func WithEntityExtractor(x interfaces.EntityExtractor) Option {
	return func(e *Engine) {
		e.entities = x
	}
}

// WithPhraseExtractor enables the phrase-relevance strategy
func WithPhraseExtractor(x interfaces.PhraseRelevanceExtractor) Option {
	return func(e *Engine) {
		e.phrases = x
	}
}

// WithFlags lets a feature flag manager switch the semantic strategies off
func WithFlags(m featureflags.Manager) Option {
	return func(e *Engine) {
		e.flags = m
	}
}

// NewEngine creates a tag engine. Without extractor options only the
// seed, keyword and frequency strategies run.
func NewEngine(deps interfaces.Dependencies, opts ...Option) *Engine {
	e := &Engine{
		logger:  interfaces.LoggerOrNop(deps.Logger),
		metrics: interfaces.MetricsOrNop(deps.Metrics),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate returns at most domain.MaxArticleTags tags for the text, existing tags first
func (e *Engine) Generate(ctx context.Context, title, content string, existing []domain.Tag) []domain.Tag {
	fullText := title + " " + content
	m := newMerger()

	m.accept(StrategySeed, existing, e.metrics)
	m.accept(StrategyKeyword, KeywordTags(fullText), e.metrics)
	m.accept(StrategyFrequency, FrequencyTags(fullText), e.metrics)

	if e.entities != nil && featureflags.Enabled(ctx, e.flags, featureflags.EntityTagging) {
		m.accept(StrategyEntity, e.entityTags(ctx, fullText), e.metrics)
	}
	if e.phrases != nil && strings.TrimSpace(content) != "" && featureflags.Enabled(ctx, e.flags, featureflags.PhraseTagging) {
		m.accept(StrategyPhrase, e.phraseTags(ctx, content), e.metrics)
	}

	return m.result()
}

// merger accumulates candidates; the first acceptance of a name wins
type merger struct {
	seen map[string]struct{}
	tags []domain.Tag
}

func newMerger() *merger {
	return &merger{seen: make(map[string]struct{})}
}

func (m *merger) accept(strategy string, candidates []domain.Tag, metrics interfaces.Metrics) {
	added := 0
	for _, c := range candidates {
		key := c.Key()
		if key == "" {
			continue
		}
		if _, ok := m.seen[key]; ok {
			continue
		}
		m.seen[key] = struct{}{}
		m.tags = append(m.tags, domain.NewTag(strings.TrimSpace(c.Name), c.Confidence))
		added++
	}
	metrics.TagCandidates(strategy, added)
}

func (m *merger) result() []domain.Tag {
	out := make([]domain.Tag, len(m.tags))
	copy(out, m.tags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > domain.MaxArticleTags {
		out = out[:domain.MaxArticleTags]
	}
	return out
}
