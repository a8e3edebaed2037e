//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"workflowAdvisor/business/bandit"
	"workflowAdvisor/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := gorm.Open(pg.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestBanditRepository_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewBanditRepository(openTestDB(t), "it_"+time.Now().Format("150405.000000"))
	require.NoError(t, repo.Migrate(ctx))

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, bandit.ErrSnapshotNotFound)

	snap := bandit.Snapshot{
		Version:              1,
		RewardWeightsVersion: bandit.RewardWeightsVersion,
		SavedAt:              time.Now().UTC().Truncate(time.Second),
		Entries: []bandit.SnapshotEntry{
			{ActionID: "draft_sow", Fingerprint: 1<<63 + 5, SuccessCount: 1.3000000000000003, FailureCount: 1},
		},
	}
	require.NoError(t, repo.Save(ctx, snap))

	snap.Entries[0].SuccessCount = 2.7
	require.NoError(t, repo.Save(ctx, snap))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 2.7, got.Entries[0].SuccessCount)
	assert.Equal(t, uint64(1<<63+5), got.Entries[0].Fingerprint)
}

func TestBanditRepository_SaveEvent(t *testing.T) {
	ctx := context.Background()
	repo := NewBanditRepository(openTestDB(t), "")
	require.NoError(t, repo.Migrate(ctx))

	actionID := "it_action_" + time.Now().Format("150405.000000")
	require.NoError(t, repo.SaveEvent(ctx, domain.FeedbackEvent{
		ActionID:    actionID,
		Fingerprint: "abc",
		Reward:      0.8,
		Success:     true,
		Context:     map[string]any{"complexity": 0.4},
	}))

	events, err := repo.RecentEvents(ctx, actionID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
}
