// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

import "time"

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache stores fetched feed bodies and semantic extraction results
	Cache Cache

	// HTTPClient fetches feeds
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger

	// Metrics records ingestion counters; nil disables recording
	Metrics Metrics
}

// Metrics receives ingestion observations.
type Metrics interface {
	SourceProcessed(source string, articles int)
	SourceFailed(source string)
	SourceDuration(source string, d time.Duration)
	EntryDropped(source string)
	TagCandidates(strategy string, n int)
	ArticlesExpired(n int64)
}

// NopMetrics drops every observation.
type NopMetrics struct{}

func (NopMetrics) SourceProcessed(string, int)          {}
func (NopMetrics) SourceFailed(string)                  {}
func (NopMetrics) SourceDuration(string, time.Duration) {}
func (NopMetrics) EntryDropped(string)                  {}
func (NopMetrics) TagCandidates(string, int)            {}
func (NopMetrics) ArticlesExpired(int64)                {}

// MetricsOrNop returns m, or NopMetrics when m is nil.
func MetricsOrNop(m Metrics) Metrics {
	if m == nil {
		return NopMetrics{}
	}
	return m
}
