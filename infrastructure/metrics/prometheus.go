// ABOUTME: Prometheus implementation of the ingestion Metrics interface
// ABOUTME: Registers counters and histograms on its own registry and serves them over HTTP

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "techpulse"

// Prometheus implements interfaces.Metrics
type Prometheus struct {
	registry         *prometheus.Registry
	sourcesProcessed *prometheus.CounterVec
	sourcesFailed    *prometheus.CounterVec
	articlesProduced *prometheus.CounterVec
	entriesDropped   *prometheus.CounterVec
	tagCandidates    *prometheus.CounterVec
	articlesExpired  prometheus.Counter
	sourceDuration   *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with a fresh registry
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		sourcesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_processed_total",
			Help:      "Sources ingested successfully.",
		}, []string{"source"}),
		sourcesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_failed_total",
			Help:      "Sources that contributed no articles because of an error.",
		}, []string{"source"}),
		articlesProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_produced_total",
			Help:      "Canonical articles produced.",
		}, []string{"source"}),
		entriesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_dropped_total",
			Help:      "Malformed feed entries skipped during normalization.",
		}, []string{"source"}),
		tagCandidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tag_candidates_total",
			Help:      "Tags contributed to the merge by each strategy.",
		}, []string{"strategy"}),
		articlesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_expired_total",
			Help:      "Articles removed by retention sweeps.",
		}),
		sourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_duration_seconds",
			Help:      "Time spent fetching, normalizing, tagging and saving one source.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"source"}),
	}

	p.registry.MustRegister(
		p.sourcesProcessed,
		p.sourcesFailed,
		p.articlesProduced,
		p.entriesDropped,
		p.tagCandidates,
		p.articlesExpired,
		p.sourceDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) SourceProcessed(source string, articles int) {
	p.sourcesProcessed.WithLabelValues(source).Inc()
	p.articlesProduced.WithLabelValues(source).Add(float64(articles))
}

func (p *Prometheus) SourceFailed(source string) {
	p.sourcesFailed.WithLabelValues(source).Inc()
}

func (p *Prometheus) SourceDuration(source string, d time.Duration) {
	p.sourceDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (p *Prometheus) EntryDropped(source string) {
	p.entriesDropped.WithLabelValues(source).Inc()
}

func (p *Prometheus) TagCandidates(strategy string, n int) {
	p.tagCandidates.WithLabelValues(strategy).Add(float64(n))
}

func (p *Prometheus) ArticlesExpired(n int64) {
	p.articlesExpired.Add(float64(n))
}

// Registry exposes the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
