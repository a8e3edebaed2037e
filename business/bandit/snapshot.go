package bandit

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const snapshotFormatVersion = 1

// Snapshot is the serialisable form of the whole store. Entries are sorted by
// action ID then fingerprint so equal stores encode to equal bytes.
type Snapshot struct {
	Version              int             `json:"version"`
	RewardWeightsVersion string          `json:"reward_weights_version"`
	SavedAt              time.Time       `json:"saved_at"`
	Entries              []SnapshotEntry `json:"entries"`
}

type SnapshotEntry struct {
	ActionID     string             `json:"action_id"`
	Fingerprint  uint64             `json:"fingerprint,string"`
	SuccessCount float64            `json:"success_count"`
	FailureCount float64            `json:"failure_count"`
	LastUpdate   time.Time          `json:"last_update"`
	TotalSamples uint64             `json:"total_samples"`
	Features     map[string]float64 `json:"features,omitempty"`
}

func newSnapshot(records map[ActionIdentifier]ContextualBandit, now time.Time) Snapshot {
	entries := make([]SnapshotEntry, 0, len(records))
	for id, b := range records {
		entries = append(entries, SnapshotEntry{
			ActionID:     id.ActionID,
			Fingerprint:  id.Fingerprint,
			SuccessCount: b.SuccessCount,
			FailureCount: b.FailureCount,
			LastUpdate:   b.LastUpdate,
			TotalSamples: b.TotalSamples,
			Features:     b.Features,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ActionID != entries[j].ActionID {
			return entries[i].ActionID < entries[j].ActionID
		}
		return entries[i].Fingerprint < entries[j].Fingerprint
	})

	return Snapshot{
		Version:              snapshotFormatVersion,
		RewardWeightsVersion: RewardWeightsVersion,
		SavedAt:              now,
		Entries:              entries,
	}
}

// Records rebuilds the posterior map. A later duplicate key overwrites an
// earlier one.
func (s Snapshot) Records() map[ActionIdentifier]ContextualBandit {
	out := make(map[ActionIdentifier]ContextualBandit, len(s.Entries))
	for _, e := range s.Entries {
		out[ActionIdentifier{ActionID: e.ActionID, Fingerprint: e.Fingerprint}] = ContextualBandit{
			SuccessCount: e.SuccessCount,
			FailureCount: e.FailureCount,
			LastUpdate:   e.LastUpdate,
			TotalSamples: e.TotalSamples,
			Features:     FeatureVector(e.Features).Clone(),
		}
	}
	return out
}

// Marshal encodes the snapshot as JSON. encoding/json writes the shortest
// decimal that parses back to the same float64, so counts round-trip exactly.
func (s Snapshot) Marshal() ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return raw, nil
}

func UnmarshalSnapshot(raw []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if s.Version > snapshotFormatVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	return s, nil
}
