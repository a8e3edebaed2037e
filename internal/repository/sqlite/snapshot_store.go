package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"workflowAdvisor/business/bandit"
)

const schema = `
CREATE TABLE IF NOT EXISTS bandit_snapshot (
    name          TEXT PRIMARY KEY,
    snapshot_json TEXT NOT NULL,
    entries       INTEGER NOT NULL,
    saved_at      TEXT NOT NULL
);
`

// SnapshotStore keeps engine snapshots in a SQLite table, one row per name.
type SnapshotStore struct {
	db   *sql.DB
	name string
}

// NewSnapshotStore creates the table if needed. name selects the row; empty
// means "default".
func NewSnapshotStore(db *sql.DB, name string) (*SnapshotStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("snapshot schema: %w", err)
	}
	if name == "" {
		name = "default"
	}
	return &SnapshotStore{db: db, name: name}, nil
}

func (s *SnapshotStore) Save(ctx context.Context, snap bandit.Snapshot) error {
	raw, err := snap.Marshal()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bandit_snapshot (name, snapshot_json, entries, saved_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   snapshot_json = excluded.snapshot_json,
		   entries = excluded.entries,
		   saved_at = excluded.saved_at`,
		s.name, string(raw), len(snap.Entries), snap.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context) (bandit.Snapshot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot_json FROM bandit_snapshot WHERE name = ?`, s.name,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return bandit.Snapshot{}, bandit.ErrSnapshotNotFound
	}
	if err != nil {
		return bandit.Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	return bandit.UnmarshalSnapshot([]byte(raw))
}
