package recent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const recentKeyPrefix = "console:recent:"

// RedisSink persists the recent-item stream as a capped redis list,
// newest entry first.
type RedisSink struct {
	client   *redis.Client
	key      string
	maxItems int
}

// NewRedisSink creates a sink writing to the user's recent list
func NewRedisSink(client *redis.Client, userID string, maxItems int) *RedisSink {
	return &RedisSink{
		client:   client,
		key:      recentKeyPrefix + userID,
		maxItems: maxItems,
	}
}

// Record pushes the item and trims the list to the cap
func (s *RedisSink) Record(ctx context.Context, item Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode recent item: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, payload)
	pipe.LTrim(ctx, s.key, 0, int64(s.maxItems)-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist recent item: %w", err)
	}
	return nil
}

// List reads back the persisted stream, newest first. Entries that no
// longer decode are skipped.
func (s *RedisSink) List(ctx context.Context) ([]Item, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, int64(s.maxItems)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent items: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for _, entry := range raw {
		var item Item
		if err := json.Unmarshal([]byte(entry), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Ping checks redis connectivity. Satisfies observability.Pinger.
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
