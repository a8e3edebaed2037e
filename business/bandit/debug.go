package bandit

import (
	"sort"
	"strconv"

	"workflowAdvisor/domain"
)

// DebugPosteriors returns a flattened view of every posterior, optionally
// restricted to one action, ordered by action then numeric fingerprint.
func (e *Engine) DebugPosteriors(actionID string) []domain.DebugPosterior {
	e.mu.Lock()
	records := e.store.entriesCopy()
	e.mu.Unlock()

	return debugRows(records, actionID)
}

// DebugSnapshot renders a stored snapshot the same way, for offline inspection.
func DebugSnapshot(snap Snapshot, actionID string) []domain.DebugPosterior {
	return debugRows(snap.Records(), actionID)
}

func debugRows(records map[ActionIdentifier]ContextualBandit, actionID string) []domain.DebugPosterior {
	ids := make([]ActionIdentifier, 0, len(records))
	for id := range records {
		if actionID != "" && id.ActionID != actionID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].ActionID != ids[j].ActionID {
			return ids[i].ActionID < ids[j].ActionID
		}
		return ids[i].Fingerprint < ids[j].Fingerprint
	})

	out := make([]domain.DebugPosterior, 0, len(ids))
	for _, id := range ids {
		b := records[id]
		out = append(out, domain.DebugPosterior{
			ActionID:     id.ActionID,
			Fingerprint:  strconv.FormatUint(id.Fingerprint, 16),
			SuccessCount: b.SuccessCount,
			FailureCount: b.FailureCount,
			Mean:         b.Mean(),
			TotalSamples: b.TotalSamples,
			LastUpdate:   b.LastUpdate,
			Features:     b.Features,
		})
	}
	return out
}
