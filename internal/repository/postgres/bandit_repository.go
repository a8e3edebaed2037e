package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workflowAdvisor/business/bandit"
	"workflowAdvisor/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultSnapshotName = "default"

// BanditRepository persists engine snapshots and the feedback audit log.
// It implements bandit.PersistenceGateway and bandit.EventLog.
type BanditRepository struct {
	DB   *gorm.DB
	name string
}

func NewBanditRepository(db *gorm.DB, name string) *BanditRepository {
	if name == "" {
		name = defaultSnapshotName
	}
	return &BanditRepository{DB: db, name: name}
}

// ---- Events ----

func (r *BanditRepository) SaveEvent(ctx context.Context, event domain.FeedbackEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save feedback event: %w", err)
	}

	return nil
}

// RecentEvents returns up to limit events for actionID, newest first.
func (r *BanditRepository) RecentEvents(ctx context.Context, actionID string, limit int) ([]domain.FeedbackEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []domain.FeedbackEvent
	q := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if actionID != "" {
		q = q.Where("action_id = ?", actionID)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query feedback events: %w", err)
	}

	return events, nil
}

// ---- Snapshot ----

type banditSnapshotRow struct {
	Name         string    `gorm:"column:name;primaryKey"`
	SnapshotJSON []byte    `gorm:"column:snapshot_json;not null"`
	Entries      int       `gorm:"column:entries"`
	SavedAt      time.Time `gorm:"column:saved_at"`
}

func (banditSnapshotRow) TableName() string {
	return "bandit_snapshot"
}

// Migrate creates the snapshot and feedback tables.
func (r *BanditRepository) Migrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(&banditSnapshotRow{}, &domain.FeedbackEvent{}); err != nil {
		return fmt.Errorf("failed to migrate bandit tables: %w", err)
	}
	return nil
}

func (r *BanditRepository) Load(ctx context.Context) (bandit.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return bandit.Snapshot{}, fmt.Errorf("context error: %w", err)
	}

	var row banditSnapshotRow
	err := r.DB.WithContext(ctx).First(&row, "name = ?", r.name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return bandit.Snapshot{}, bandit.ErrSnapshotNotFound
	}
	if err != nil {
		return bandit.Snapshot{}, fmt.Errorf("failed to query bandit_snapshot: %w", err)
	}

	return bandit.UnmarshalSnapshot(row.SnapshotJSON)
}

// Save upserts the whole snapshot as one row, so a reader sees either the
// previous document or the new one.
func (r *BanditRepository) Save(ctx context.Context, snap bandit.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := snap.Marshal()
	if err != nil {
		return err
	}

	row := banditSnapshotRow{
		Name:         r.name,
		SnapshotJSON: raw,
		Entries:      len(snap.Entries),
		SavedAt:      snap.SavedAt,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert bandit_snapshot: %w", err)
	}

	return nil
}
