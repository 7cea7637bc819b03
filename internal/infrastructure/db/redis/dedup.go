package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupStore implements the lead dedupe check on Redis. SetNX makes the
// check-and-mark atomic across processes; the retention window is the
// key TTL, so stale entries expire server-side.
type DedupStore struct {
	client *redis.Client
	window time.Duration
}

func NewDedupStore(client *redis.Client, window time.Duration) *DedupStore {
	return &DedupStore{client: client, window: window}
}

// CheckAndMark reports whether key was already marked within the window,
// marking it otherwise.
func (d *DedupStore) CheckAndMark(ctx context.Context, key string, _ time.Time) (bool, error) {
	set, err := d.client.SetNX(ctx, d.redisKey(key), "1", d.window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return !set, nil
}

// Unmark removes a key so a rolled-back submission can be retried.
func (d *DedupStore) Unmark(ctx context.Context, key string) error {
	return d.client.Del(ctx, d.redisKey(key)).Err()
}

func (d *DedupStore) redisKey(key string) string {
	return "lead_dedup:" + key
}
