package trending

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	viewsKey = "gallery:trending:views" // sorted set: member = project id, score = recent views
	maxRank  = 100                      // entries kept by Prune
)

// Tracker keeps a coarse rolling window of view activity in Redis. Scores
// accumulate until the key's TTL expires, so "recent" means "within the
// last window, give or take one window". Best-effort by design: callers
// log and move on when Redis is unavailable.
type Tracker struct {
	client *redis.Client
	window time.Duration
}

func NewTracker(client *redis.Client, window time.Duration) *Tracker {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &Tracker{client: client, window: window}
}

// RecordView counts one view event against the project.
func (t *Tracker) RecordView(ctx context.Context, projectID string) error {
	pipe := t.client.Pipeline()
	pipe.ZIncrBy(ctx, viewsKey, 1, projectID)
	pipe.ExpireNX(ctx, viewsKey, t.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// Top returns up to limit project IDs ordered by recent view count.
func (t *Tracker) Top(ctx context.Context, limit int) ([]string, error) {
	if limit < 1 {
		limit = 6
	}

	ids, err := t.client.ZRevRange(ctx, viewsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top projects: %w", err)
	}
	return ids, nil
}

// Prune bounds the sorted set so a long-lived window cannot grow without
// limit. Everything below the top maxRank entries is dropped.
func (t *Tracker) Prune(ctx context.Context) error {
	err := t.client.ZRemRangeByRank(ctx, viewsKey, 0, int64(-maxRank-1)).Err()
	if err != nil {
		return fmt.Errorf("prune trending: %w", err)
	}
	return nil
}
