package roster

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SnapshotRepository is the persistence contract for archive snapshots.
// Each slice of store state lives under its own key (the Snapshot*
// constants in migrate.go) so that slices load and fail independently.
type SnapshotRepository interface {
	// Load returns the payload stored under key, or (nil, nil) when no
	// snapshot has been written yet.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save writes one payload.
	Save(ctx context.Context, key string, payload []byte) error

	// SaveAll writes several payloads as one unit. Used after cascade
	// mutations so the campaign list and backdrop registry cannot land in
	// storage half-updated.
	SaveAll(ctx context.Context, payloads map[string][]byte) error
}

// redisKeyPrefix namespaces snapshot keys in Redis.
const redisKeyPrefix = "roster:"

// redisSnapshotRepository implements SnapshotRepository on Redis. Snapshots
// are whole-slice JSON blobs with no TTL.
type redisSnapshotRepository struct {
	redis *redis.Client
}

// NewRedisSnapshotRepository creates a snapshot repository backed by Redis.
func NewRedisSnapshotRepository(rdb *redis.Client) SnapshotRepository {
	return &redisSnapshotRepository{redis: rdb}
}

// Load reads one snapshot payload. A missing key is not an error.
func (r *redisSnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.redis.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %q: %w", key, err)
	}
	return data, nil
}

// Save writes one snapshot payload.
func (r *redisSnapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	if err := r.redis.Set(ctx, redisKeyPrefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("writing snapshot %q: %w", key, err)
	}
	return nil
}

// SaveAll writes several snapshots in one pipelined transaction.
func (r *redisSnapshotRepository) SaveAll(ctx context.Context, payloads map[string][]byte) error {
	pipe := r.redis.TxPipeline()
	for key, payload := range payloads {
		pipe.Set(ctx, redisKeyPrefix+key, payload, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing snapshot batch: %w", err)
	}
	return nil
}
