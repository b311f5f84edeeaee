package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Processed grants outlive any realistic client retry window; after the TTL
// lapses a replay falls through to the grant path, which is idempotent.
const replayTTL = 24 * time.Hour

// ReplayMarker records processed grants so a replayed confirmation can be
// acknowledged without re-resolving account and course state. The caller
// supplies the key; one key covers exactly one account/course/payment grant.
// Storage format: payment:processed:<key>
type ReplayMarker struct {
	client *redis.Client
}

// NewReplayMarker creates a ReplayMarker wrapping the given Redis client.
func NewReplayMarker(client *redis.Client) *ReplayMarker {
	return &ReplayMarker{client: client}
}

// IsProcessed reports whether this grant has already been performed.
func (m *ReplayMarker) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := m.client.Exists(ctx, m.storageKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("replay check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this grant has been performed (expires after replayTTL).
func (m *ReplayMarker) Mark(ctx context.Context, key string) error {
	return m.client.Set(ctx, m.storageKey(key), "1", replayTTL).Err()
}

func (m *ReplayMarker) storageKey(key string) string {
	return "payment:processed:" + key
}
