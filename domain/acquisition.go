package domain

// AcquisitionContext is the situational input produced by the surrounding
// application (document intake, clause checks, user profile). All numeric
// fields are expected to be already normalised upstream; the encoder clamps
// whatever arrives.
type AcquisitionContext struct {
	AcquisitionType       string             `json:"acquisition_type"`
	Phase                 string             `json:"phase"`
	EstimatedValue        float64            `json:"estimated_value"`
	Complexity            float64            `json:"complexity"`
	TimePressure          float64            `json:"time_pressure"`
	UserExperience        float64            `json:"user_experience"`
	HistoricalSuccessRate float64            `json:"historical_success_rate"`
	DocumentCount         int                `json:"document_count"`
	Extra                 map[string]float64 `json:"extra,omitempty"`
}

// Action is a candidate workflow step. Only ID is used for learning.
type Action struct {
	ID          string            `json:"id" validate:"required"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
