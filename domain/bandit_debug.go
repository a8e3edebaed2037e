package domain

import "time"

type DebugPosterior struct {
	ActionID     string             `json:"action_id"`
	Fingerprint  string             `json:"fingerprint"`
	SuccessCount float64            `json:"success_count"` // Beta alpha
	FailureCount float64            `json:"failure_count"` // Beta beta
	Mean         float64            `json:"mean"`          // alpha / (alpha + beta)
	TotalSamples uint64             `json:"total_samples"`
	LastUpdate   time.Time          `json:"last_update"`
	Features     map[string]float64 `json:"features,omitempty"`
}
