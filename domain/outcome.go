package domain

import "time"

// Outcome is what was observed after a recommendation was shown. Pointer
// fields are optional; a nil value means the signal is not known yet.
type Outcome struct {
	Accepted             *bool          `json:"accepted,omitempty"`
	Modified             bool           `json:"modified"`
	DownstreamIssues     *int           `json:"downstream_issues,omitempty"`
	ComplianceViolations *int           `json:"compliance_violations,omitempty"`
	ExpectedDuration     *time.Duration `json:"expected_duration,omitempty"`
	ActualDuration       *time.Duration `json:"actual_duration,omitempty"`
}
