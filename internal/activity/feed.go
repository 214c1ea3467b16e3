package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const feedKey = "backoffice:activity"

// Feed is a capped, newest-first list of events in Redis.
type Feed struct {
	client *redis.Client
	size   int64
}

// NewFeed returns a feed keeping at most size events.
func NewFeed(client *redis.Client, size int64) *Feed {
	if size <= 0 {
		size = 50
	}
	return &Feed{client: client, size: size}
}

// Append pushes ev to the head of the feed and trims the tail.
func (f *Feed) Append(ctx context.Context, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, feedKey, raw)
	pipe.LTrim(ctx, feedKey, 0, f.size-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("activity: append: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first. Undecodable entries are skipped.
func (f *Feed) Recent(ctx context.Context, limit int64) ([]Event, error) {
	if limit <= 0 || limit > f.size {
		limit = f.size
	}
	raws, err := f.client.LRange(ctx, feedKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("activity: recent: %w", err)
	}
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		var ev Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}
