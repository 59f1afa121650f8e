package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"gotitanic/domain/analysis"
	"gotitanic/domain/core"
	"gotitanic/internal/errors"
	"gotitanic/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a duplicate key
const uniqueViolation = "23505"

// snapshotRepository stores snapshots as JSONB rows in the analyses table
type snapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new PostgreSQL snapshot repository
func NewSnapshotRepository(db *sqlx.DB) ports.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Store(ctx context.Context, snapshot *analysis.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, count, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`, snapshot.ID, snapshot.Count, payload, snapshot.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("snapshot %s already stored", snapshot.ID)
		}
		return errors.DatabaseError("failed to store snapshot", err)
	}
	return nil
}

func (r *snapshotRepository) Latest(ctx context.Context) (*analysis.Snapshot, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `
		SELECT payload FROM analyses ORDER BY created_at DESC, id DESC LIMIT 1
	`)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load latest snapshot", err)
	}
	return decodeSnapshot(payload)
}

func (r *snapshotRepository) Get(ctx context.Context, id core.ID) (*analysis.Snapshot, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM analyses WHERE id = $1`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w with id %s", core.ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load snapshot", err)
	}
	return decodeSnapshot(payload)
}

// List returns snapshot headers without decoding their payloads
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]ports.SnapshotSummary, error) {
	query := `SELECT id, count, created_at FROM analyses ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	summaries := []ports.SnapshotSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list snapshots", err)
	}
	return summaries, nil
}

func decodeSnapshot(payload []byte) (*analysis.Snapshot, error) {
	var snapshot analysis.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
