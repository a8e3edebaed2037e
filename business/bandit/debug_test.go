package bandit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugSnapshot_OrdersByActionThenNumericFingerprint(t *testing.T) {
	snap := Snapshot{
		Version: 1,
		Entries: []SnapshotEntry{
			{ActionID: "b", Fingerprint: 0x1, SuccessCount: 1, FailureCount: 1},
			{ActionID: "a", Fingerprint: 0x100, SuccessCount: 1, FailureCount: 1},
			{ActionID: "a", Fingerprint: 0xff, SuccessCount: 3, FailureCount: 1},
			{ActionID: "a", Fingerprint: 0x2, SuccessCount: 1, FailureCount: 1},
		},
	}

	rows := DebugSnapshot(snap, "")
	require.Len(t, rows, 4)

	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.ActionID+"/"+r.Fingerprint)
	}
	assert.Equal(t, []string{"a/2", "a/ff", "a/100", "b/1"}, got)
	assert.InDelta(t, 0.75, rows[1].Mean, 1e-12)

	only := DebugSnapshot(snap, "b")
	require.Len(t, only, 1)
	assert.Equal(t, "1", only[0].Fingerprint)
}
