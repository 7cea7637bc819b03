package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestDedupStore_WindowExpiry(t *testing.T) {
	d := NewDedupStore(10 * time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	dup, err := d.CheckAndMark(context.Background(), "c1|shop.com|a@x.com", base)
	if err != nil || dup {
		t.Fatalf("first mark: dup=%v err=%v", dup, err)
	}

	dup, _ = d.CheckAndMark(context.Background(), "c1|shop.com|a@x.com", base.Add(5*time.Minute))
	if !dup {
		t.Error("within window: want duplicate")
	}

	dup, _ = d.CheckAndMark(context.Background(), "c1|shop.com|a@x.com", base.Add(11*time.Minute))
	if dup {
		t.Error("after window: want fresh mark")
	}
}

func TestDedupStore_Unmark(t *testing.T) {
	d := NewDedupStore(time.Hour)
	now := time.Now()

	if _, err := d.CheckAndMark(context.Background(), "k", now); err != nil {
		t.Fatal(err)
	}
	if err := d.Unmark(context.Background(), "k"); err != nil {
		t.Fatal(err)
	}
	if dup, _ := d.CheckAndMark(context.Background(), "k", now); dup {
		t.Error("unmarked key still reported duplicate")
	}
}

func TestDedupStore_ConcurrentSameKey(t *testing.T) {
	d := NewDedupStore(time.Hour)
	now := time.Now()

	const n = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	fresh := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dup, err := d.CheckAndMark(context.Background(), "same", now)
			if err != nil {
				t.Error(err)
				return
			}
			if !dup {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if fresh != 1 {
		t.Errorf("%d goroutines saw a fresh mark, want exactly 1", fresh)
	}
}

func TestDedupStore_SweepEvictsStaleEntries(t *testing.T) {
	d := NewDedupStore(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < sweepThreshold; i++ {
		if _, err := d.CheckAndMark(context.Background(), fmt.Sprintf("k%d", i), base); err != nil {
			t.Fatal(err)
		}
	}

	// All entries are stale by now; the next insert triggers a sweep.
	if _, err := d.CheckAndMark(context.Background(), "fresh", base.Add(2*time.Minute)); err != nil {
		t.Fatal(err)
	}

	d.mu.Lock()
	size := len(d.marks)
	d.mu.Unlock()
	if size != 1 {
		t.Errorf("map holds %d entries after sweep, want 1", size)
	}
}
