package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
	"github.com/grammate-io/grammate-api/internal/domain/repository"
	"github.com/grammate-io/grammate-api/internal/domain/service"
	"github.com/grammate-io/grammate-api/internal/infrastructure/metrics"
)

// Error definitions for the batch runner
var (
	ErrBatchActive = errors.New("a batch is already running")
	ErrEmptyBatch  = errors.New("batch contains no items")
)

// Observer receives progress callbacks from the runner. Callbacks run on
// the dispatch goroutine and must not block.
type Observer interface {
	// OnProgress is invoked after every processed item
	OnProgress(snapshot entity.ProgressSnapshot, latest *entity.AnalysisResult)

	// OnComplete is invoked once when the run ends, stopped or completed
	OnComplete(snapshot entity.ProgressSnapshot)
}

// Options tunes the runner's pacing and retention
type Options struct {
	// InterItemDelay is the courtesy throttle applied after every item,
	// independent of the annotator's own backoff.
	InterItemDelay time.Duration

	// PausePollInterval bounds how often the paused loop re-checks its flags
	PausePollInterval time.Duration

	// RecentWindowCap bounds the most-recent-first results window
	RecentWindowCap int
}

// DefaultOptions returns the production pacing defaults
func DefaultOptions() Options {
	return Options{
		InterItemDelay:    100 * time.Millisecond,
		PausePollInterval: 500 * time.Millisecond,
		RecentWindowCap:   100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.InterItemDelay <= 0 {
		o.InterItemDelay = d.InterItemDelay
	}
	if o.PausePollInterval <= 0 {
		o.PausePollInterval = d.PausePollInterval
	}
	if o.RecentWindowCap <= 0 {
		o.RecentWindowCap = d.RecentWindowCap
	}
	return o
}

// BatchRunner drives a batch of texts through the annotation service one
// item at a time. A single goroutine owns all run state; operator controls
// touch only the pause/stop flags, and external readers get copies.
type BatchRunner struct {
	recordRepo repository.RecordRepository
	annotator  service.Annotator
	logger     *zap.Logger
	opts       Options
	observers  []Observer

	paused atomic.Bool
	stop   atomic.Bool

	mu      sync.RWMutex
	batchID uuid.UUID
	status  entity.RunStatus
	total   int
	current int
	success int
	failure int
	recent  []*entity.AnalysisResult
	counts  *entity.AggregateCounts
	done    chan struct{}
}

// NewBatchRunner creates a new batch runner
func NewBatchRunner(recordRepo repository.RecordRepository, annotator service.Annotator, logger *zap.Logger, opts Options) *BatchRunner {
	done := make(chan struct{})
	close(done)
	return &BatchRunner{
		recordRepo: recordRepo,
		annotator:  annotator,
		logger:     logger,
		opts:       opts.withDefaults(),
		status:     entity.RunStatusIdle,
		counts:     entity.NewAggregateCounts(),
		done:       done,
	}
}

// Subscribe registers an observer. Must be called before Start.
func (r *BatchRunner) Subscribe(obs Observer) {
	r.observers = append(r.observers, obs)
}

// Start begins dispatching a new batch. It fails if a batch is active;
// starting from a terminal state resets all accumulated state first.
func (r *BatchRunner) Start(items []string) (uuid.UUID, error) {
	if len(items) == 0 {
		return uuid.Nil, ErrEmptyBatch
	}

	r.mu.Lock()
	if r.status.IsActive() {
		r.mu.Unlock()
		return uuid.Nil, ErrBatchActive
	}

	batchID := uuid.New()
	r.batchID = batchID
	r.status = entity.RunStatusRunning
	r.total = len(items)
	r.current = 0
	r.success = 0
	r.failure = 0
	r.recent = nil
	r.counts = entity.NewAggregateCounts()
	r.done = make(chan struct{})
	r.paused.Store(false)
	r.stop.Store(false)
	r.mu.Unlock()

	metrics.BatchesStarted.Inc()
	r.logger.Info("batch started",
		zap.String("batch_id", batchID.String()),
		zap.Int("total", len(items)),
	)

	go r.run(items)
	return batchID, nil
}

// Pause suspends dispatch before the next item. Idempotent; no effect on a
// terminal run. The in-flight item is not cancelled.
func (r *BatchRunner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.IsActive() {
		return
	}
	r.paused.Store(true)
}

// Resume lifts a pause. Idempotent; no effect on a terminal run.
func (r *BatchRunner) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.IsActive() {
		return
	}
	r.paused.Store(false)
}

// Stop requests cancellation. The in-flight item completes and is counted;
// all remaining items are discarded. Irreversible once observed.
func (r *BatchRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.IsActive() {
		return
	}
	r.stop.Store(true)
	r.paused.Store(false)
}

// Reset clears accumulated state. Only valid from idle or a terminal state.
func (r *BatchRunner) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.IsActive() {
		return ErrBatchActive
	}
	r.batchID = uuid.Nil
	r.status = entity.RunStatusIdle
	r.total = 0
	r.current = 0
	r.success = 0
	r.failure = 0
	r.recent = nil
	r.counts = entity.NewAggregateCounts()
	return nil
}

// Progress returns a copy of the current run state
func (r *BatchRunner) Progress() entity.ProgressSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// BatchID returns the id of the current or most recent batch
func (r *BatchRunner) BatchID() uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.batchID
}

// RecentResults returns the bounded most-recent-first results window
func (r *BatchRunner) RecentResults() []*entity.AnalysisResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.AnalysisResult, len(r.recent))
	copy(out, r.recent)
	return out
}

// Stats returns a copy of the aggregate annotation counters
func (r *BatchRunner) Stats() *entity.AggregateCounts {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts.Clone()
}

// Done returns a channel closed when the current run's loop has exited
func (r *BatchRunner) Done() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done
}

// run is the dispatch loop. It is the only writer of run state after Start.
func (r *BatchRunner) run(items []string) {
	defer func() {
		r.mu.Lock()
		if r.stop.Load() {
			r.status = entity.RunStatusStopped
		} else {
			r.status = entity.RunStatusCompleted
		}
		final := r.snapshotLocked()
		done := r.done
		r.mu.Unlock()

		r.logger.Info("batch finished",
			zap.String("status", string(final.Status)),
			zap.Int("current", final.Current),
			zap.Int("success", final.SuccessCount),
			zap.Int("failure", final.FailureCount),
		)
		for _, obs := range r.observers {
			obs.OnComplete(final)
		}
		close(done)
	}()

	for i, text := range items {
		if r.stop.Load() {
			return
		}

		if !r.waitWhilePaused() {
			return
		}

		result := r.processItem(text)

		r.mu.Lock()
		r.current++
		if result.Failed {
			r.failure++
		} else {
			r.success++
		}
		r.recent = append([]*entity.AnalysisResult{result}, r.recent...)
		if len(r.recent) > r.opts.RecentWindowCap {
			r.recent = r.recent[:r.opts.RecentWindowCap]
		}
		r.counts.Merge(result)
		snapshot := r.snapshotLocked()
		r.mu.Unlock()

		for _, obs := range r.observers {
			obs.OnProgress(snapshot, result)
		}

		if i < len(items)-1 {
			time.Sleep(r.opts.InterItemDelay)
		}
	}
}

// waitWhilePaused blocks on a bounded poll while the pause flag is set.
// Returns false if a stop request ended the wait.
func (r *BatchRunner) waitWhilePaused() bool {
	if !r.paused.Load() {
		return true
	}

	r.mu.Lock()
	r.status = entity.RunStatusPaused
	r.mu.Unlock()

	for r.paused.Load() {
		if r.stop.Load() {
			return false
		}
		time.Sleep(r.opts.PausePollInterval)
	}

	if r.stop.Load() {
		return false
	}

	r.mu.Lock()
	r.status = entity.RunStatusRunning
	r.mu.Unlock()
	return true
}

// processItem annotates one text and persists the outcome. Annotation
// failure yields the placeholder result; persistence failure is logged and
// swallowed so that run accounting never depends on the store.
func (r *BatchRunner) processItem(text string) *entity.AnalysisResult {
	ctx := context.Background()

	result, err := r.annotator.Annotate(ctx, text)
	if err != nil {
		metrics.ItemsProcessed.WithLabelValues("failure").Inc()
		r.logger.Warn("item failed", zap.Error(err))
		return entity.NewFailureResult(text)
	}

	if err := r.recordRepo.Create(ctx, entity.NewRecord(result)); err != nil {
		metrics.StoreAppendFailures.Inc()
		r.logger.Warn("failed to persist result, continuing", zap.Error(err))
	}

	metrics.ItemsProcessed.WithLabelValues("success").Inc()
	return result
}

func (r *BatchRunner) snapshotLocked() entity.ProgressSnapshot {
	return entity.ProgressSnapshot{
		Status:       r.status,
		Total:        r.total,
		Current:      r.current,
		SuccessCount: r.success,
		FailureCount: r.failure,
	}
}
