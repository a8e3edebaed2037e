package bandit

import (
	"strconv"
	"time"
)

// ActionIdentifier keys a posterior: the same action under two different
// contexts gets two independent posteriors.
type ActionIdentifier struct {
	ActionID    string
	Fingerprint uint64
}

func (id ActionIdentifier) String() string {
	return id.ActionID + "@" + strconv.FormatUint(id.Fingerprint, 16)
}

// ContextualBandit is the Beta(SuccessCount, FailureCount) posterior for one
// ActionIdentifier plus bookkeeping.
type ContextualBandit struct {
	SuccessCount float64       `json:"success_count"`
	FailureCount float64       `json:"failure_count"`
	LastUpdate   time.Time     `json:"last_update"`
	TotalSamples uint64        `json:"total_samples"`
	Features     FeatureVector `json:"features,omitempty"`
}

// Mean is the posterior mean alpha / (alpha + beta).
func (b ContextualBandit) Mean() float64 {
	if b.SuccessCount+b.FailureCount == 0 {
		return defaultFeatureValue
	}
	return b.SuccessCount / (b.SuccessCount + b.FailureCount)
}

func (b ContextualBandit) clone() ContextualBandit {
	b.Features = b.Features.Clone()
	return b
}

// applyReward folds one aggregated reward into the posterior.
// A reward of exactly successThreshold counts as a success.
func (b *ContextualBandit) applyReward(reward float64, now time.Time) bool {
	success := reward >= successThreshold
	if success {
		b.SuccessCount += reward
	} else {
		b.FailureCount += 1.0 - reward
	}
	b.TotalSamples++
	b.LastUpdate = now
	return success
}

// Store is the in-memory map of posteriors. It is not safe for concurrent
// use; Engine serialises every access.
type Store struct {
	priorAlpha float64
	priorBeta  float64
	maxEntries int // 0 = unbounded
	entries    map[ActionIdentifier]*ContextualBandit
}

func newStore(priorAlpha, priorBeta float64, maxEntries int) *Store {
	return &Store{
		priorAlpha: priorAlpha,
		priorBeta:  priorBeta,
		maxEntries: maxEntries,
		entries:    make(map[ActionIdentifier]*ContextualBandit),
	}
}

func (s *Store) len() int {
	return len(s.entries)
}

func (s *Store) get(id ActionIdentifier) (*ContextualBandit, bool) {
	b, ok := s.entries[id]
	return b, ok
}

// ensure returns the posterior for id, creating it from the prior when
// missing. created reports whether a new record was added.
func (s *Store) ensure(id ActionIdentifier, features FeatureVector, now time.Time) (b *ContextualBandit, created bool) {
	if b, ok := s.entries[id]; ok {
		return b, false
	}
	b = &ContextualBandit{
		SuccessCount: s.priorAlpha,
		FailureCount: s.priorBeta,
		LastUpdate:   now,
		Features:     features.Clone(),
	}
	s.entries[id] = b
	return b, true
}

// entriesCopy returns deep copies of every posterior.
func (s *Store) entriesCopy() map[ActionIdentifier]ContextualBandit {
	out := make(map[ActionIdentifier]ContextualBandit, len(s.entries))
	for id, b := range s.entries {
		out[id] = b.clone()
	}
	return out
}

// replace swaps the whole map for the given records, raising any pseudo-count
// below the prior back up to it.
func (s *Store) replace(records map[ActionIdentifier]ContextualBandit) {
	entries := make(map[ActionIdentifier]*ContextualBandit, len(records))
	for id, rec := range records {
		rec := rec.clone()
		if rec.SuccessCount < s.priorAlpha {
			rec.SuccessCount = s.priorAlpha
		}
		if rec.FailureCount < s.priorBeta {
			rec.FailureCount = s.priorBeta
		}
		entries[id] = &rec
	}
	s.entries = entries
}
