// ABOUTME: Model-backed tag strategies over optional entity and phrase extractors
// ABOUTME: Extractor errors are logged and contribute no candidates

package tagging

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"techpulse-app/core/domain"
)

const (
	entityConfidence = 0.7
	maxEntityInput   = 10000
	maxPhraseInput   = 5000
	topPhrases       = 5
)

var entityClasses = map[string]struct{}{
	"ORG":         {},
	"PRODUCT":     {},
	"GPE":         {},
	"LOC":         {},
	"PERSON":      {},
	"WORK_OF_ART": {},
	"EVENT":       {},
}

func (e *Engine) entityTags(ctx context.Context, text string) []domain.Tag {
	entities, err := e.entities.ExtractEntities(ctx, truncateRunes(text, maxEntityInput))
	if err != nil {
		e.logger.Warn("Entity extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	var tags []domain.Tag
	for _, ent := range entities {
		name := strings.TrimSpace(ent.Text)
		if _, ok := entityClasses[strings.ToUpper(ent.Class)]; !ok {
			continue
		}
		if utf8.RuneCountInString(name) <= 2 || isStopword(name) || isNumeric(name) {
			continue
		}
		tags = append(tags, domain.NewTag(name, entityConfidence))
	}
	return tags
}

func (e *Engine) phraseTags(ctx context.Context, content string) []domain.Tag {
	phrases, err := e.phrases.ExtractPhrases(ctx, truncateRunes(content, maxPhraseInput), topPhrases)
	if err != nil {
		e.logger.Warn("Phrase extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	var tags []domain.Tag
	for _, p := range phrases {
		words := strings.Fields(p.Phrase)
		if len(words) == 0 || len(words) > 2 {
			continue
		}
		tags = append(tags, domain.NewTag(titleCase(strings.Join(words, " ")), p.Score))
		if len(tags) == topPhrases {
			break
		}
	}
	return tags
}

func isNumeric(s string) bool {
	s = strings.ReplaceAll(s, ",", "")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
