package ports

import (
	"context"
	"time"

	"gotitanic/domain/analysis"
	"gotitanic/domain/core"
)

// SnapshotRepository defines the interface for persisted analysis snapshots
type SnapshotRepository interface {
	Store(ctx context.Context, snapshot *analysis.Snapshot) error
	// Latest returns core.ErrSnapshotNotFound when nothing was stored yet
	Latest(ctx context.Context) (*analysis.Snapshot, error)
	Get(ctx context.Context, id core.ID) (*analysis.Snapshot, error)
	// List returns snapshot headers, newest first
	List(ctx context.Context, limit int) ([]SnapshotSummary, error)
}

// SnapshotSummary is the header of a stored snapshot
type SnapshotSummary struct {
	ID        core.ID   `json:"id" db:"id"`
	Count     int       `json:"count" db:"count"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
