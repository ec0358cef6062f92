// ABOUTME: Model-backed entity and key phrase extractors using langchaingo
// ABOUTME: Talks to any OpenAI-compatible chat endpoint in JSON mode, retrying malformed replies

package semantic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"techpulse-app/core/interfaces"
	"techpulse-app/pkg/config"
)

const maxAttempts = 3

// ErrEmptyResponse is returned when the model produced no choices
var ErrEmptyResponse = errors.New("semantic: model returned no choices")

// Extractor implements interfaces.EntityExtractor and interfaces.PhraseRelevanceExtractor
type Extractor struct {
	client  llms.Model
	timeout time.Duration
	logger  interfaces.Logger
}

// New creates an extractor for the configured OpenAI-compatible endpoint
func New(cfg config.SemanticConfig, logger interfaces.Logger) (*Extractor, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("semantic: model is required")
	}

	// Local OpenAI-compatible services accept any token
	token := cfg.Token
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("semantic: create client: %w", err)
	}

	return NewWithModel(client, time.Duration(cfg.TimeoutSeconds)*time.Second, logger), nil
}

// NewWithModel wraps an existing langchaingo model. A zero timeout means no per-call deadline.
func NewWithModel(client llms.Model, timeout time.Duration, logger interfaces.Logger) *Extractor {
	return &Extractor{
		client:  client,
		timeout: timeout,
		logger:  interfaces.LoggerOrNop(logger),
	}
}

type entityResponse struct {
	Entities []interfaces.Entity `json:"entities"`
}

type phraseResponse struct {
	Phrases []interfaces.ScoredPhrase `json:"phrases"`
}

// ExtractEntities asks the model for the named entities of text
func (e *Extractor) ExtractEntities(ctx context.Context, text string) ([]interfaces.Entity, error) {
	var out entityResponse
	if err := e.complete(ctx, entityPrompt, text, &out); err != nil {
		return nil, err
	}

	entities := make([]interfaces.Entity, 0, len(out.Entities))
	for _, ent := range out.Entities {
		ent.Text = strings.TrimSpace(ent.Text)
		ent.Class = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ent.Class), " ", "_"))
		if ent.Text == "" {
			continue
		}
		entities = append(entities, ent)
	}
	return entities, nil
}

// ExtractPhrases asks the model for the topN most relevant key phrases of text
func (e *Extractor) ExtractPhrases(ctx context.Context, text string, topN int) ([]interfaces.ScoredPhrase, error) {
	if topN <= 0 {
		return nil, nil
	}

	var out phraseResponse
	if err := e.complete(ctx, fmt.Sprintf(phrasePrompt, topN), text, &out); err != nil {
		return nil, err
	}

	phrases := make([]interfaces.ScoredPhrase, 0, len(out.Phrases))
	for _, p := range out.Phrases {
		p.Phrase = strings.TrimSpace(p.Phrase)
		if p.Phrase == "" {
			continue
		}
		phrases = append(phrases, p)
		if len(phrases) == topN {
			break
		}
	}
	return phrases, nil
}

// complete sends one system+human exchange and decodes the JSON reply into out.
// Transport errors fail immediately; undecodable replies are retried.
func (e *Extractor) complete(ctx context.Context, system, text string, out interface{}) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, text),
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			return fmt.Errorf("semantic: generate: %w", err)
		}
		if len(response.Choices) == 0 {
			return ErrEmptyResponse
		}

		body := stripFences(response.Choices[0].Content)
		if json.Unmarshal([]byte(body), out) == nil {
			return nil
		}
		if err := json.Unmarshal([]byte(repairJSON(body)), out); err != nil {
			lastErr = err
			e.logger.Warn("Unparseable model response", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
			})
			continue
		}
		return nil
	}

	return fmt.Errorf("semantic: decode response after %d attempts: %w", maxAttempts, lastErr)
}
