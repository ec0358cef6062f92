package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techpulse-app/core/domain"
	"techpulse-app/core/interfaces"
)

// mockArticleStore records retention cutoffs
type mockArticleStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (m *mockArticleStore) SaveArticles(ctx context.Context, articles []*domain.Article) error {
	return nil
}

func (m *mockArticleStore) DeleteArticlesCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.deleted, m.err
}

func (m *mockArticleStore) DeleteArticlesWithoutSource(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockArticleStore) sweeps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

type expiredMetrics struct {
	interfaces.NopMetrics
	mu      sync.Mutex
	expired int64
}

func (m *expiredMetrics) ArticlesExpired(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired += n
}

func TestNewRetentionWorker_Defaults(t *testing.T) {
	rw := NewRetentionWorker(&mockArticleStore{}, interfaces.Dependencies{}, RetentionConfig{})
	assert.Equal(t, DefaultRetentionConfig(), rw.config)
}

func TestSweep_UsesRetentionCutoff(t *testing.T) {
	store := &mockArticleStore{deleted: 4}
	metrics := &expiredMetrics{}
	rw := NewRetentionWorker(store, interfaces.Dependencies{Metrics: metrics}, RetentionConfig{Retention: 48 * time.Hour, Interval: time.Hour})
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	rw.now = func() time.Time { return now }

	n, err := rw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, []time.Time{now.Add(-48 * time.Hour)}, store.cutoffs)
	assert.Equal(t, int64(4), metrics.expired)
}

func TestSweep_StoreError(t *testing.T) {
	store := &mockArticleStore{err: errors.New("locked")}
	metrics := &expiredMetrics{}
	rw := NewRetentionWorker(store, interfaces.Dependencies{Metrics: metrics}, DefaultRetentionConfig())

	_, err := rw.Sweep(context.Background())
	assert.Error(t, err)
	assert.Zero(t, metrics.expired)
}

func TestStart_SweepsImmediatelyAndOnInterval(t *testing.T) {
	store := &mockArticleStore{}
	rw := NewRetentionWorker(store, interfaces.Dependencies{}, RetentionConfig{Retention: time.Hour, Interval: 10 * time.Millisecond})

	require.NoError(t, rw.Start(context.Background()))
	require.NoError(t, rw.Start(context.Background()), "second start is a no-op")

	assert.Eventually(t, func() bool { return store.sweeps() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, rw.Stop())

	after := store.sweeps()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, store.sweeps(), "no sweeps after Stop")
	assert.NoError(t, rw.Stop())
}

func TestStart_StopsWithContext(t *testing.T) {
	store := &mockArticleStore{}
	rw := NewRetentionWorker(store, interfaces.Dependencies{}, RetentionConfig{Retention: time.Hour, Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, rw.Start(ctx))
	assert.Eventually(t, func() bool { return store.sweeps() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		rw.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after context cancellation")
	}
}

func TestStart_RequiresStore(t *testing.T) {
	rw := NewRetentionWorker(nil, interfaces.Dependencies{}, DefaultRetentionConfig())
	assert.ErrorIs(t, rw.Start(context.Background()), ErrNoStore)
}
