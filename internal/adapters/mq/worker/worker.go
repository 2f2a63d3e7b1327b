// Package worker runs the scoring stage of a season build. Workers
// drain grouped pitch events off the queue, compute summary statistics
// and a consistency score per group, and hand qualified results to a
// collector for league assembly.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/cuatro-costuras/public-baseball/internal/adapters/mq/queue"
	"github.com/cuatro-costuras/public-baseball/internal/domain/aggregate"
	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
	"github.com/cuatro-costuras/public-baseball/internal/domain/scoring"
	"github.com/cuatro-costuras/public-baseball/pkg/logger"
	"github.com/cuatro-costuras/public-baseball/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
// Using the queue.Job type for consistency.
type Job = queue.Job

// Scorer computes a consistency score for a summarized group.
type Scorer interface {
	Score(g *model.PitchTypeGroup) (float64, error)
}

// Collector receives scored groups as workers finish them.
type Collector interface {
	Collect(ctx context.Context, r scoring.Result)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes grouped events and emits scores through the collector.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue drains.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing group jobs.
type InMemoryWorker struct {
	queue     Queue
	scorer    Scorer
	collector Collector
	agg       *aggregate.Aggregator
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, collector Collector, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		scorer:    scorer,
		collector: collector,
		agg:       aggregate.New(),
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Queue drained and closed.
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing group", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob summarizes and scores a single group.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	group := w.agg.Summarize(job)

	score, err := w.scorer.Score(group)
	if err != nil {
		if errors.Is(err, scoring.ErrInsufficientData) {
			// Small samples are expected; they just don't enter the league.
			metrics.RecordGroupBelowThreshold()
			w.logger.Debug(ctx, "group below sample threshold",
				logger.String("pitcher", job.PitcherID),
				logger.String("pitch_type", job.PitchType),
				logger.Int("count", group.Count),
			)
			return nil
		}
		metrics.RecordWorkerError()
		metrics.RecordErrorByType("scoring_error", "high")
		w.logger.Error(ctx, "scoring failed for group",
			logger.String("pitcher", job.PitcherID),
			logger.String("pitch_type", job.PitchType),
			logger.Error(err),
		)
		return fmt.Errorf("score group %s/%s: %w", job.PitcherID, job.PitchType, err)
	}

	w.collector.Collect(ctx, scoring.Result{
		PitcherID: job.PitcherID,
		PitchType: job.PitchType,
		Score:     score,
	})
	metrics.RecordGroupScored()

	return nil
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	scorer    Scorer
	collector Collector

	shutdown     chan struct{}
	shutdownOnce sync.Once

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, scorer Scorer, collector Collector) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     queue,
		scorer:    scorer,
		collector: collector,
		shutdown:  make(chan struct{}),
		logger:    logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			scorer,
			collector,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Wait blocks until every worker has exited, which happens once the
// queue is closed and fully drained, or until ctx expires.
func (p *Pool) Wait(ctx context.Context) error {
	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "wait for workers timed out", logger.Int("worker_id", i))
			return fmt.Errorf("wait for workers: %w", ctx.Err())
		}
	}
	return nil
}

// Stop signals all workers to stop without waiting for the queue to drain.
func (p *Pool) Stop() {
	p.shutdownOnce.Do(func() {
		close(p.shutdown)
		for _, worker := range p.workers {
			close(worker.shutdown)
		}
	})

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool. The queue is
// closed first so workers finish whatever is already enqueued.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
