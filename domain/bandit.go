package domain

import (
	"time"

	"gorm.io/datatypes"
)

// FeedbackEvent is the append-only audit row written for every applied reward.
type FeedbackEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TraceID     string    `gorm:"column:trace_id" json:"trace_id"`
	ActionID    string    `gorm:"column:action_id;not null" json:"action_id"`
	Fingerprint string    `gorm:"column:fingerprint;not null" json:"fingerprint"`
	Immediate   float64   `gorm:"column:immediate" json:"immediate"`
	Delayed     float64   `gorm:"column:delayed" json:"delayed"`
	Compliance  float64   `gorm:"column:compliance" json:"compliance"`
	Efficiency  float64   `gorm:"column:efficiency" json:"efficiency"`
	Reward      float64   `gorm:"column:reward" json:"reward"`
	Success     bool      `gorm:"column:success" json:"success"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Context datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (FeedbackEvent) TableName() string {
	return "bandit_feedback_events"
}
