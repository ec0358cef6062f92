// ABOUTME: Frequency-statistics tag strategy that needs no external model
// ABOUTME: Ranks recurring bigrams, trigrams and single words of the filtered text

package tagging

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"techpulse-app/core/domain"
)

const (
	maxNGramTags     = 10
	maxWordTags      = 15
	maxFrequencyTags = 15
	minWordRunes     = 4
)

type termCount struct {
	term  string
	count int
}

// FrequencyTags extracts recurring phrases and words from text
func FrequencyTags(text string) []domain.Tag {
	words := filteredWords(text)
	if len(words) == 0 {
		return nil
	}

	var grams []string
	for n := 2; n <= 3; n++ {
		for i := 0; i+n <= len(words); i++ {
			grams = append(grams, strings.Join(words[i:i+n], " "))
		}
	}

	tags := make([]domain.Tag, 0, maxFrequencyTags)
	var accepted []string
	for _, tc := range rankTerms(grams, maxNGramTags) {
		accepted = append(accepted, tc.term)
		tags = append(tags, domain.NewTag(titleCase(tc.term), 0.5+0.1*float64(tc.count)))
	}

	var singles []string
	for _, w := range words {
		if !containedIn(w, accepted) {
			singles = append(singles, w)
		}
	}
	for _, tc := range rankTerms(singles, maxWordTags) {
		tags = append(tags, domain.NewTag(titleCase(tc.term), 0.4+0.05*float64(tc.count)))
	}

	if len(tags) > maxFrequencyTags {
		tags = tags[:maxFrequencyTags]
	}
	return tags
}

// filteredWords lowercases, turns punctuation into spaces and drops stopwords and short words
func filteredWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	var words []string
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) < minWordRunes || isStopword(w) {
			continue
		}
		words = append(words, w)
	}
	return words
}

// rankTerms counts terms and returns the top n by count, ties by first occurrence
func rankTerms(terms []string, n int) []termCount {
	index := make(map[string]int, len(terms))
	var counts []termCount
	for _, t := range terms {
		if j, ok := index[t]; ok {
			counts[j].count++
			continue
		}
		index[t] = len(counts)
		counts = append(counts, termCount{term: t, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func containedIn(word string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(p, word) {
			return true
		}
	}
	return false
}
