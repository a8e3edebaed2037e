package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowAdvisor/business/bandit"
	"workflowAdvisor/domain"
	"workflowAdvisor/pkg/database"
)

func setupTestStore(t *testing.T, name string) *SnapshotStore {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "bandit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSnapshotStore(db, name)
	require.NoError(t, err)
	return store
}

func TestSnapshotStore_LoadEmpty(t *testing.T) {
	store := setupTestStore(t, "")

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, bandit.ErrSnapshotNotFound)
}

func TestSnapshotStore_SaveOverwrites(t *testing.T) {
	store := setupTestStore(t, "advisor")
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	first := bandit.Snapshot{Version: 1, SavedAt: now, Entries: []bandit.SnapshotEntry{
		{ActionID: "a", Fingerprint: 42, SuccessCount: 1, FailureCount: 1, LastUpdate: now},
	}}
	second := bandit.Snapshot{Version: 1, SavedAt: now.Add(time.Minute), Entries: []bandit.SnapshotEntry{
		{ActionID: "a", Fingerprint: 42, SuccessCount: 1.9, FailureCount: 1, LastUpdate: now, TotalSamples: 1},
		{ActionID: "b", Fingerprint: 1<<64 - 1, SuccessCount: 1, FailureCount: 1.7000000000000002, LastUpdate: now},
	}}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(second, got))
}

func TestSnapshotStore_BackendForEngine(t *testing.T) {
	store := setupTestStore(t, "")
	ctx := context.Background()
	actx := domain.AcquisitionContext{AcquisitionType: "competitive", Phase: "planning", Complexity: 0.2}
	candidates := []domain.Action{{ID: "market_research"}, {ID: "draft_sow"}}

	first, err := bandit.NewEngine(bandit.DefaultConfig(), store)
	require.NoError(t, err)
	rec, err := first.SelectAction(ctx, actx, candidates)
	require.NoError(t, err)
	require.NoError(t, first.UpdateReward(ctx, rec.Action.ID, bandit.RewardSignal{Immediate: 1, Delayed: 1}, actx))

	second, err := bandit.NewEngine(bandit.DefaultConfig(), store)
	require.NoError(t, err)
	require.NoError(t, second.Restore(ctx))

	want, ok := first.Posterior(rec.Action.ID, actx)
	require.True(t, ok)
	got, ok := second.Posterior(rec.Action.ID, actx)
	require.True(t, ok)
	assert.Equal(t, want.SuccessCount, got.SuccessCount)
	assert.Equal(t, want.TotalSamples, got.TotalSamples)
	assert.Equal(t, 2, second.Size())
}
