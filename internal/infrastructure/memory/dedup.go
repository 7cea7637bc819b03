package memory

import (
	"context"
	"sync"
	"time"
)

// DedupStore is a process-local dedupe map with lazy eviction: entries
// older than the retention window are dropped when touched, and the whole
// map is swept opportunistically once it grows past sweepThreshold. The
// key space is bounded by real traffic, so no background sweeper runs.
type DedupStore struct {
	mu     sync.Mutex
	window time.Duration
	marks  map[string]time.Time
}

const sweepThreshold = 4096

func NewDedupStore(window time.Duration) *DedupStore {
	return &DedupStore{
		window: window,
		marks:  make(map[string]time.Time),
	}
}

// CheckAndMark reports whether key was marked within the window, marking
// it at now otherwise. The mutex makes check-and-insert atomic per call,
// so two concurrent submissions of the same tuple cannot both be
// accepted as non-duplicate.
func (d *DedupStore) CheckAndMark(_ context.Context, key string, now time.Time) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if at, ok := d.marks[key]; ok {
		if now.Sub(at) < d.window {
			return true, nil
		}
		delete(d.marks, key)
	}

	if len(d.marks) >= sweepThreshold {
		d.sweepLocked(now)
	}

	d.marks[key] = now
	return false, nil
}

// Unmark removes a key so a rolled-back submission can be retried.
func (d *DedupStore) Unmark(_ context.Context, key string) error {
	d.mu.Lock()
	delete(d.marks, key)
	d.mu.Unlock()
	return nil
}

func (d *DedupStore) sweepLocked(now time.Time) {
	for k, at := range d.marks {
		if now.Sub(at) >= d.window {
			delete(d.marks, k)
		}
	}
}
