package memory

import (
	"context"
	"fmt"
	"sync"

	"gotitanic/domain/analysis"
	"gotitanic/domain/core"
	"gotitanic/ports"
)

// snapshotRepository keeps stored snapshots in insertion order
type snapshotRepository struct {
	mu        sync.RWMutex
	snapshots []*analysis.Snapshot
	byID      map[core.ID]*analysis.Snapshot
}

// NewSnapshotRepository creates an empty in-memory snapshot repository
func NewSnapshotRepository() ports.SnapshotRepository {
	return &snapshotRepository{byID: make(map[core.ID]*analysis.Snapshot)}
}

func (r *snapshotRepository) Store(ctx context.Context, snapshot *analysis.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot == nil || snapshot.ID.IsEmpty() {
		return fmt.Errorf("snapshot must have an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[snapshot.ID]; exists {
		return fmt.Errorf("snapshot %s already stored", snapshot.ID)
	}
	r.snapshots = append(r.snapshots, snapshot)
	r.byID[snapshot.ID] = snapshot
	return nil
}

func (r *snapshotRepository) Latest(ctx context.Context) (*analysis.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.snapshots) == 0 {
		return nil, core.ErrSnapshotNotFound
	}
	return r.snapshots[len(r.snapshots)-1], nil
}

func (r *snapshotRepository) Get(ctx context.Context, id core.ID) (*analysis.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w with id %s", core.ErrSnapshotNotFound, id)
	}
	return snapshot, nil
}

// List returns up to limit snapshot headers, newest first; limit <= 0 returns all
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]ports.SnapshotSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.snapshots)
	if limit > 0 && limit < n {
		n = limit
	}
	summaries := make([]ports.SnapshotSummary, 0, n)
	for i := len(r.snapshots) - 1; i >= 0 && len(summaries) < n; i-- {
		s := r.snapshots[i]
		summaries = append(summaries, ports.SnapshotSummary{ID: s.ID, Count: s.Count, CreatedAt: s.CreatedAt})
	}
	return summaries, nil
}
