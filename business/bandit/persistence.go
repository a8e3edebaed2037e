package bandit

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoValidAction is returned by SelectAction when no usable candidate
	// remains. Retrying with the same input cannot succeed.
	ErrNoValidAction = errors.New("bandit: no valid action")

	ErrSaveFailed = errors.New("bandit: snapshot save failed")
	ErrLoadFailed = errors.New("bandit: snapshot load failed")

	// ErrSnapshotNotFound is returned by gateways that have nothing stored yet.
	ErrSnapshotNotFound = errors.New("bandit: snapshot not found")

	// ErrRestoreIncomplete wraps saves refused after a failed Restore.
	ErrRestoreIncomplete = errors.New("bandit: restore incomplete, stored snapshot kept")
)

// PersistenceGateway durably stores whole-store snapshots. A Save must be
// all-or-nothing: Load never observes a partially written snapshot. The
// engine never calls a gateway concurrently.
type PersistenceGateway interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// PersistError reports a gateway failure. errors.Is matches ErrSaveFailed or
// ErrLoadFailed depending on Op, and the gateway error through Unwrap.
type PersistError struct {
	Op  string // "save" or "load"
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("bandit: snapshot %s failed: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

func (e *PersistError) Is(target error) bool {
	switch target {
	case ErrSaveFailed:
		return e.Op == "save"
	case ErrLoadFailed:
		return e.Op == "load"
	}
	return false
}

// InMemoryGateway keeps the encoded snapshot in memory. It goes through the
// same JSON encoding as the durable gateways.
type InMemoryGateway struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	saveErr error
	loadErr error
}

func NewInMemoryGateway() *InMemoryGateway {
	return &InMemoryGateway{}
}

func (g *InMemoryGateway) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.saveErr != nil {
		return g.saveErr
	}
	raw, err := snap.Marshal()
	if err != nil {
		return err
	}
	g.data = raw
	g.saves++
	return nil
}

func (g *InMemoryGateway) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("context error: %w", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loadErr != nil {
		return Snapshot{}, g.loadErr
	}
	if g.data == nil {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return UnmarshalSnapshot(g.data)
}

// FailSaves makes every following Save return err; nil restores normal operation.
func (g *InMemoryGateway) FailSaves(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saveErr = err
}

// FailLoads makes every following Load return err.
func (g *InMemoryGateway) FailLoads(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loadErr = err
}

// Saves returns the number of successful saves.
func (g *InMemoryGateway) Saves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves
}
