package bandit

import (
	"sort"
	"time"
)

// capPosteriors drops the least recently updated posteriors until the store
// is back within maxEntries. Keys in keep are never dropped, so a selection
// round cannot evict the posteriors it just created.
func capPosteriors(s *Store, keep map[ActionIdentifier]struct{}) []ActionIdentifier {
	if s == nil || s.maxEntries <= 0 {
		return nil
	}
	if len(s.entries) <= s.maxEntries {
		return nil
	}

	type postInfo struct {
		id         ActionIdentifier
		lastUpdate time.Time
		samples    uint64
	}

	infos := make([]postInfo, 0, len(s.entries))
	for id, b := range s.entries {
		if _, ok := keep[id]; ok {
			continue
		}
		infos = append(infos, postInfo{
			id:         id,
			lastUpdate: b.LastUpdate,
			samples:    b.TotalSamples,
		})
	}

	// Sort ascending: oldest & least-used first, key order as last resort
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].lastUpdate.Equal(infos[j].lastUpdate) {
			return infos[i].lastUpdate.Before(infos[j].lastUpdate)
		}
		if infos[i].samples != infos[j].samples {
			return infos[i].samples < infos[j].samples
		}
		return infos[i].id.String() < infos[j].id.String()
	})

	toDrop := len(s.entries) - s.maxEntries
	dropped := make([]ActionIdentifier, 0, toDrop)
	for i := 0; i < toDrop && i < len(infos); i++ {
		delete(s.entries, infos[i].id)
		dropped = append(dropped, infos[i].id)
	}
	return dropped
}
