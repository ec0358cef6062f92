// ABOUTME: Public types for the TechPulse library API
// ABOUTME: Aliases the core domain model so callers need a single import

package techpulse

import (
	"techpulse-app/core/domain"
	"techpulse-app/core/ingest"
)

// Article is a normalized, tagged feed entry
type Article = domain.Article

// Source describes a feed to ingest
type Source = domain.Source

// Tag is a topical label with a confidence in [0, 1]
type Tag = domain.Tag

// RawEntry is a decoded feed entry before normalization
type RawEntry = domain.RawEntry

// IngestResult aggregates one ingestion run
type IngestResult = ingest.Result

// SourceResult is the outcome for a single source within an IngestResult
type SourceResult = ingest.SourceResult

// MaxTags is the most tags an article carries
const MaxTags = domain.MaxArticleTags
