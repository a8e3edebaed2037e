//go:build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowAdvisor/business/bandit"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestSnapshotRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(newTestClient(t), "it_"+time.Now().Format("150405.000000"), time.Minute)
	t.Cleanup(func() { _ = repo.Delete(context.Background()) })

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, bandit.ErrSnapshotNotFound)

	snap := bandit.Snapshot{Version: 1, Entries: []bandit.SnapshotEntry{
		{ActionID: "a", Fingerprint: 9, SuccessCount: 3.1, FailureCount: 1.2},
	}}
	require.NoError(t, repo.Save(ctx, snap))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 3.1, got.Entries[0].SuccessCount)
}
