package migration

import (
	"context"

	"gostreams/internal/errors"

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

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createCheckpointsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create stream_checkpoints table")
	}

	if err := r.createCheckpointEntriesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create stream_checkpoint_entries table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createCheckpointsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stream_checkpoints (
			id UUID PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			master_seed BIGINT NOT NULL CHECK (master_seed >= 0 AND master_seed <= 4294967295),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createCheckpointEntriesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stream_checkpoint_entries (
			checkpoint_id UUID NOT NULL REFERENCES stream_checkpoints(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			stream_key TEXT NOT NULL,
			draw JSONB NOT NULL,
			state JSONB NOT NULL,
			PRIMARY KEY (checkpoint_id, position)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_stream_checkpoints_created_at ON stream_checkpoints(created_at DESC);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_stream_checkpoint_entries_key ON stream_checkpoint_entries(checkpoint_id, stream_key);
	`)
	return err
}
