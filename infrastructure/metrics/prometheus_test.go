package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techpulse-app/core/interfaces"
)

var _ interfaces.Metrics = (*Prometheus)(nil)

func TestPrometheus_Counters(t *testing.T) {
	p := NewPrometheus()

	p.SourceProcessed("AWS", 3)
	p.SourceProcessed("AWS", 2)
	p.SourceFailed("Azure")
	p.EntryDropped("AWS")
	p.TagCandidates("keyword", 4)
	p.ArticlesExpired(7)
	p.SourceDuration("AWS", 250*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.sourcesProcessed.WithLabelValues("AWS")))
	assert.Equal(t, 5.0, testutil.ToFloat64(p.articlesProduced.WithLabelValues("AWS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.sourcesFailed.WithLabelValues("Azure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.entriesDropped.WithLabelValues("AWS")))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.tagCandidates.WithLabelValues("keyword")))
	assert.Equal(t, 7.0, testutil.ToFloat64(p.articlesExpired))
	assert.Equal(t, 1, testutil.CollectAndCount(p.sourceDuration))
}

func TestPrometheus_Handler(t *testing.T) {
	p := NewPrometheus()
	p.SourceProcessed("AWS", 1)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `techpulse_sources_processed_total{source="AWS"} 1`), string(body))
}
