// ABOUTME: Retention worker deletes articles older than the retention window
// ABOUTME: Runs once on start, then on every interval until stopped

package workers

import (
	"context"
	"sync"
	"time"

	"techpulse-app/core/interfaces"
)

// RetentionConfig holds configuration for the retention worker
type RetentionConfig struct {
	// Retention is the maximum article age measured from its creation time
	Retention time.Duration
	// Interval is the time between sweeps
	Interval time.Duration
}

// DefaultRetentionConfig returns the default retention configuration
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		Retention: 30 * 24 * time.Hour,
		Interval:  24 * time.Hour,
	}
}

// RetentionWorker periodically removes expired articles
type RetentionWorker struct {
	store   interfaces.ArticleStore
	logger  interfaces.Logger
	metrics interfaces.Metrics
	config  RetentionConfig
	now     func() time.Time

	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// NewRetentionWorker creates a new retention worker
func NewRetentionWorker(store interfaces.ArticleStore, deps interfaces.Dependencies, config RetentionConfig) *RetentionWorker {
	if config.Retention <= 0 {
		config.Retention = DefaultRetentionConfig().Retention
	}
	if config.Interval <= 0 {
		config.Interval = DefaultRetentionConfig().Interval
	}

	return &RetentionWorker{
		store:   store,
		logger:  interfaces.LoggerOrNop(deps.Logger),
		metrics: interfaces.MetricsOrNop(deps.Metrics),
		config:  config,
		now:     time.Now,
	}
}

// Start launches the sweep loop. The loop ends when ctx is cancelled or Stop is called.
func (rw *RetentionWorker) Start(ctx context.Context) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.running {
		return nil
	}
	if rw.store == nil {
		return ErrNoStore
	}

	ctx, cancel := context.WithCancel(ctx)
	rw.cancel = cancel
	rw.running = true

	rw.wg.Add(1)
	go rw.run(ctx)
	return nil
}

// Stop stops the sweep loop and waits for an in-flight sweep to finish
func (rw *RetentionWorker) Stop() error {
	rw.mu.Lock()
	if !rw.running {
		rw.mu.Unlock()
		return nil
	}
	rw.cancel()
	rw.running = false
	rw.mu.Unlock()

	rw.wg.Wait()
	return nil
}

// Sweep deletes every article created before now minus the retention window
func (rw *RetentionWorker) Sweep(ctx context.Context) (int64, error) {
	cutoff := rw.now().Add(-rw.config.Retention)
	n, err := rw.store.DeleteArticlesCreatedBefore(ctx, cutoff)
	if err != nil {
		rw.logger.Error("Retention sweep failed", map[string]interface{}{
			"cutoff": cutoff,
			"error":  err.Error(),
		})
		return 0, err
	}

	rw.metrics.ArticlesExpired(n)
	rw.logger.Info("Retention sweep finished", map[string]interface{}{
		"cutoff":  cutoff,
		"deleted": n,
	})
	return n, nil
}

func (rw *RetentionWorker) run(ctx context.Context) {
	defer rw.wg.Done()

	_, _ = rw.Sweep(ctx)

	ticker := time.NewTicker(rw.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = rw.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Error definitions
var (
	ErrNoStore = &WorkerError{Message: "retention worker has no article store"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
