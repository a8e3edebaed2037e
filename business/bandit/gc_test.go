//go:build !integration

package bandit

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario params
const (
	stressNumContexts = 2000
	stressNumActions  = 40
	stressMaxEntries  = 500
)

func fillStore(s *Store, rnd *rand.Rand, start time.Time) {
	for c := 0; c < stressNumContexts; c++ {
		now := start.Add(time.Duration(c) * time.Second)
		fp := rnd.Uint64()
		for a := 0; a < 3; a++ {
			id := ActionIdentifier{ActionID: fmt.Sprintf("act_%d", rnd.IntN(stressNumActions)), Fingerprint: fp}
			s.ensure(id, nil, now)
			capPosteriors(s, map[ActionIdentifier]struct{}{id: {}})
		}
	}
}

func TestStoreGrowth_UnboundedVsCapped(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	unbounded := newStore(1, 1, 0)
	fillStore(unbounded, rand.New(rand.NewPCG(1, 2)), start)

	capped := newStore(1, 1, stressMaxEntries)
	fillStore(capped, rand.New(rand.NewPCG(1, 2)), start)

	t.Logf("[UNBOUNDED] posteriors=%d", unbounded.len())
	t.Logf("[CAPPED]    posteriors=%d", capped.len())

	assert.Greater(t, unbounded.len(), stressMaxEntries)
	assert.Equal(t, stressMaxEntries, capped.len())

	// everything left in the capped store is among the most recent contexts
	cutoff := start.Add(time.Duration(stressNumContexts-stressMaxEntries) * time.Second)
	for id, b := range capped.entries {
		assert.False(t, b.LastUpdate.Before(cutoff), "stale posterior %s survived", id)
	}
}

func TestCapPosteriors_OrderAndKeep(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newStore(1, 1, 2)

	old := ActionIdentifier{ActionID: "old", Fingerprint: 1}
	busy := ActionIdentifier{ActionID: "busy", Fingerprint: 1}
	idle := ActionIdentifier{ActionID: "idle", Fingerprint: 1}
	fresh := ActionIdentifier{ActionID: "fresh", Fingerprint: 1}

	s.ensure(old, nil, t0)
	b, _ := s.ensure(busy, nil, t0.Add(time.Minute))
	b.TotalSamples = 9
	s.ensure(idle, nil, t0.Add(time.Minute))
	s.ensure(fresh, nil, t0)

	dropped := capPosteriors(s, map[ActionIdentifier]struct{}{fresh: {}})

	require.Len(t, dropped, 2)
	assert.Equal(t, old, dropped[0], "oldest goes first")
	assert.Equal(t, idle, dropped[1], "same age: fewer samples goes first")

	_, ok := s.get(fresh)
	assert.True(t, ok, "kept key survives despite being oldest")
	_, ok = s.get(busy)
	assert.True(t, ok)
}

func TestCapPosteriors_Unbounded(t *testing.T) {
	s := newStore(1, 1, 0)
	for i := 0; i < 10; i++ {
		s.ensure(ActionIdentifier{ActionID: "a", Fingerprint: uint64(i)}, nil, time.Now())
	}
	assert.Nil(t, capPosteriors(s, nil))
	assert.Nil(t, capPosteriors(nil, nil))
	assert.Equal(t, 10, s.len())
}
