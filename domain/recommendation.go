package domain

type AlternativeAction struct {
	Action         Action  `json:"action"`
	Confidence     float64 `json:"confidence"`
	ThompsonSample float64 `json:"thompson_sample"`
}

// ActionRecommendation is the result of one selection round. It is built once
// and never mutated afterwards.
type ActionRecommendation struct {
	Action         Action              `json:"action"`
	Confidence     float64             `json:"confidence"`
	Rationale      string              `json:"rationale"`
	Alternatives   []AlternativeAction `json:"alternatives"`
	ThompsonSample float64             `json:"thompson_sample"`
}
