package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"workflowAdvisor/business/bandit"
)

type SnapshotRepository struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSnapshotRepository stores the snapshot under "bandit:snapshot:{name}".
// ttl 0 keeps the key forever.
func NewSnapshotRepository(client *redis.Client, name string, ttl time.Duration) *SnapshotRepository {
	if name == "" {
		name = "default"
	}
	return &SnapshotRepository{
		client: client,
		key:    fmt.Sprintf("bandit:snapshot:%s", name),
		ttl:    ttl,
	}
}

// Save writes the whole document with a single SET.
func (r *SnapshotRepository) Save(ctx context.Context, snap bandit.Snapshot) error {
	raw, err := snap.Marshal()
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot in Redis: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context) (bandit.Snapshot, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return bandit.Snapshot{}, bandit.ErrSnapshotNotFound
		}
		return bandit.Snapshot{}, fmt.Errorf("failed to get snapshot from Redis: %w", err)
	}

	return bandit.UnmarshalSnapshot(raw)
}

// Delete removes the stored snapshot.
func (r *SnapshotRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
