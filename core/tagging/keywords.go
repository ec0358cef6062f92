// ABOUTME: Rule-based tag strategy matching a fixed table of technology keywords
// ABOUTME: Confidence grows with the match count of the first keyword phrase that hits

package tagging

import (
	"regexp"
	"strings"

	"techpulse-app/core/domain"
)

type keywordRule struct {
	tag      string
	phrases  []string
	patterns []*regexp.Regexp
}

// keywordTable is ordered; earlier tags are emitted first
var keywordTable = compileKeywordTable([]keywordRule{
	// Cloud providers
	{tag: "aws", phrases: []string{"aws", "amazon web services", "ec2", "s3", "dynamodb", "lambda", "cloudfront"}},
	{tag: "azure", phrases: []string{"azure", "microsoft azure", "azure functions", "cosmos db", "blob storage"}},
	{tag: "gcp", phrases: []string{"gcp", "google cloud", "google cloud platform", "bigquery", "cloud storage"}},

	// Platforms
	{tag: "kubernetes", phrases: []string{"kubernetes", "k8s", "container orchestration", "kubectl"}},
	{tag: "docker", phrases: []string{"docker", "container", "containerization"}},
	{tag: "terraform", phrases: []string{"terraform", "infrastructure as code", "iac"}},
	{tag: "serverless", phrases: []string{"serverless", "faas", "function as a service"}},

	// AI / ML
	{tag: "ai", phrases: []string{"artificial intelligence", "ai", "machine learning", "ml"}},
	{tag: "llm", phrases: []string{"llm", "large language model", "language model", "gpt", "bert"}},
	{tag: "ml", phrases: []string{"machine learning", "deep learning", "neural network"}},

	// Security
	{tag: "security", phrases: []string{"security", "cybersecurity", "cyber security", "infosec"}},
	{tag: "encryption", phrases: []string{"encryption", "cryptography", "crypto"}},
	{tag: "zero_trust", phrases: []string{"zero trust", "zero-trust"}},

	// Delivery
	{tag: "devops", phrases: []string{"devops", "ci/cd", "continuous integration", "continuous deployment"}},
	{tag: "gitops", phrases: []string{"gitops", "git-based operations"}},

	// Data
	{tag: "big_data", phrases: []string{"big data", "data lake", "data warehouse"}},
	{tag: "analytics", phrases: []string{"analytics", "business intelligence", "bi"}},

	// Development
	{tag: "backend", phrases: []string{"backend", "api", "rest api", "graphql"}},
	{tag: "frontend", phrases: []string{"frontend", "spa", "single page application", "react", "vue", "angular"}},
	{tag: "microservices", phrases: []string{"microservices", "service mesh", "api gateway"}},
})

func compileKeywordTable(rules []keywordRule) []keywordRule {
	for i := range rules {
		rules[i].patterns = make([]*regexp.Regexp, len(rules[i].phrases))
		for j, phrase := range rules[i].phrases {
			rules[i].patterns[j] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(phrase)) + `\b`)
		}
	}
	return rules
}

// KeywordTags emits at most one tag per table entry found in text.
// Only the first matching phrase of an entry is counted.
func KeywordTags(text string) []domain.Tag {
	lower := strings.ToLower(text)
	var tags []domain.Tag
	for _, rule := range keywordTable {
		for _, pattern := range rule.patterns {
			matches := pattern.FindAllStringIndex(lower, -1)
			if len(matches) == 0 {
				continue
			}
			confidence := 0.6 + 0.1*float64(len(matches))
			tags = append(tags, domain.NewTag(displayName(rule.tag), confidence))
			break
		}
	}
	return tags
}

// displayName turns a table key like "zero_trust" into "Zero Trust"
func displayName(key string) string {
	return titleCase(strings.ReplaceAll(key, "_", " "))
}
