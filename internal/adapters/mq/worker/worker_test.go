package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cuatro-costuras/public-baseball/internal/adapters/mq/queue"
	"github.com/cuatro-costuras/public-baseball/internal/adapters/mq/worker"
	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
	"github.com/cuatro-costuras/public-baseball/internal/domain/scoring"
)

type captureCollector struct {
	mu      sync.Mutex
	results []scoring.Result
}

func (c *captureCollector) Collect(ctx context.Context, r scoring.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *captureCollector) all() []scoring.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]scoring.Result(nil), c.results...)
}

func groupJob(pitcher string, n int, spread float64) model.GroupJob {
	events := make([]model.PitchEvent, n)
	for i := range events {
		offset := spread * float64(i%2)
		events[i] = model.PitchEvent{
			PitcherID:       pitcher,
			PitchType:       "FF",
			HorizontalBreak: -6.0 + offset,
			VerticalBreak:   15.0 - offset,
		}
	}
	return model.GroupJob{PitcherID: pitcher, PitchType: "FF", Events: events}
}

func TestPool_ScoresQualifiedGroups(t *testing.T) {
	ctx := context.Background()
	q := queue.NewInMemoryQueue(queue.WithCapacity(10))
	collector := &captureCollector{}
	scorer := scoring.New(scoring.WithMinSample(5))

	pool := worker.NewPool(3, q, scorer, collector)
	pool.Start(ctx)

	// Two qualified groups and one below the sample threshold.
	if !q.Enqueue(ctx, groupJob("cole", 10, 0.2)) {
		t.Fatal("enqueue failed")
	}
	if !q.Enqueue(ctx, groupJob("wheeler", 8, 1.5)) {
		t.Fatal("enqueue failed")
	}
	if !q.Enqueue(ctx, groupJob("rookie", 3, 0.2)) {
		t.Fatal("enqueue failed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Wait(waitCtx); err != nil {
		t.Fatalf("pool did not drain: %v", err)
	}

	results := collector.all()
	if len(results) != 2 {
		t.Fatalf("expected 2 scored groups, got %d", len(results))
	}

	byPitcher := make(map[string]float64, len(results))
	for _, r := range results {
		if r.PitchType != "FF" {
			t.Errorf("unexpected pitch type %s", r.PitchType)
		}
		byPitcher[r.PitcherID] = r.Score
	}
	if _, ok := byPitcher["rookie"]; ok {
		t.Error("below-threshold group should not be collected")
	}
	if byPitcher["cole"] <= byPitcher["wheeler"] {
		t.Errorf("tighter group must score higher: cole=%v wheeler=%v",
			byPitcher["cole"], byPitcher["wheeler"])
	}
}

func TestPool_StopWithoutDraining(t *testing.T) {
	ctx := context.Background()
	q := queue.NewInMemoryQueue(queue.WithCapacity(10))
	collector := &captureCollector{}

	pool := worker.NewPool(2, q, scoring.New(), collector)
	pool.Start(ctx)
	pool.Stop()

	// Stop must return even though the queue was never closed.
}

func TestPool_ShutdownClosesQueue(t *testing.T) {
	ctx := context.Background()
	q := queue.NewInMemoryQueue(queue.WithCapacity(10))
	collector := &captureCollector{}

	pool := worker.NewPool(2, q, scoring.New(scoring.WithMinSample(5)), collector)
	pool.Start(ctx)

	if !q.Enqueue(ctx, groupJob("cole", 10, 0.2)) {
		t.Fatal("enqueue failed")
	}
	if err := pool.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected shutdown to close the queue")
	}
	if len(collector.all()) != 1 {
		t.Errorf("expected the enqueued group to be processed before shutdown, got %d", len(collector.all()))
	}
}
