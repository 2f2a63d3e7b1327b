// Package dedupe suppresses exact duplicate rows during data loads.
// Monthly Statcast files can overlap at the boundaries; the loader keys
// each row and asks the deduper whether it has already been accepted.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen row keys so each row is accepted at most once.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records
	// it if not. Returns true when key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Size returns the number of recorded keys.
	Size() int64
}

// inMemoryDeduper implements Deduper with a map. When maxSize > 0 the
// oldest keys are evicted in insertion order once the bound is hit;
// with maxSize <= 0 the set is unbounded, which suits a one-shot
// season load.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			oldest := d.order[0]
			d.order = d.order[1:]
			delete(d.seen, oldest)
			d.size.Add(-1)
		}
		d.order = append(d.order, key)
	}

	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
