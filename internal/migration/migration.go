package migration

import (
	"context"

	"gotitanic/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every statement is
// idempotent, so Run is safe on every start.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createPassengersTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create passengers table")
	}

	if err := r.createAnalysesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create analyses table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createPassengersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS passengers (
			passenger_id INTEGER PRIMARY KEY,
			survived BOOLEAN NOT NULL,
			class SMALLINT NOT NULL CHECK (class BETWEEN 1 AND 3),
			name TEXT NOT NULL,
			sex VARCHAR(6) NOT NULL CHECK (sex IN ('female', 'male')),
			age DOUBLE PRECISION NOT NULL CHECK (age >= 0),
			sib_sp INTEGER NOT NULL DEFAULT 0,
			parch INTEGER NOT NULL DEFAULT 0,
			ticket TEXT NOT NULL DEFAULT '',
			fare DOUBLE PRECISION NOT NULL DEFAULT 0,
			cabin TEXT NOT NULL DEFAULT '',
			embarked VARCHAR(1) NOT NULL DEFAULT ''
		)
	`)
	return err
}

// createAnalysesTable stores whole snapshots as JSONB, one row per rebuild
func (r *MigrationRunner) createAnalysesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			count INTEGER NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_passengers_sex_class ON passengers(sex, class)",
		"CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			return errors.Wrapf(err, "index statement %q", idxSQL)
		}
	}

	return nil
}
