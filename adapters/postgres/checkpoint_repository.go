package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"gostreams/domain/core"
	"gostreams/domain/stream"
	"gostreams/internal/errors"
	"gostreams/ports"

	"github.com/jmoiron/sqlx"
)

// CheckpointRepositoryImpl implements CheckpointRepository for PostgreSQL
type CheckpointRepositoryImpl struct {
	db *sqlx.DB
}

// NewCheckpointRepository creates a new PostgreSQL checkpoint repository
func NewCheckpointRepository(db *sqlx.DB) ports.CheckpointRepository {
	return &CheckpointRepositoryImpl{db: db}
}

type checkpointRow struct {
	ID         string    `db:"id"`
	Label      string    `db:"label"`
	MasterSeed int64     `db:"master_seed"`
	CreatedAt  time.Time `db:"created_at"`
}

type entryRow struct {
	Position int                   `db:"position"`
	Key      string                `db:"stream_key"`
	Draw     []byte                `db:"draw"`
	State    stream.GeneratorState `db:"state"`
}

func (row checkpointRow) toDomain() *stream.Checkpoint {
	return &stream.Checkpoint{
		ID:         core.CheckpointID(row.ID),
		Label:      row.Label,
		MasterSeed: uint32(row.MasterSeed),
		CreatedAt:  row.CreatedAt,
	}
}

// Save stores the header and all entries in one transaction
func (r *CheckpointRepositoryImpl) Save(ctx context.Context, cp *stream.Checkpoint) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin checkpoint transaction", err)
	}
	defer tx.Rollback()

	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stream_checkpoints (id, label, master_seed, created_at)
		VALUES ($1, $2, $3, $4)
	`, cp.ID.String(), cp.Label, int64(cp.MasterSeed), cp.CreatedAt)
	if err != nil {
		return errors.DatabaseError("failed to insert checkpoint", err)
	}

	for _, e := range cp.Entries {
		draw, err := json.Marshal(e.Draw)
		if err != nil {
			return errors.Wrapf(err, "failed to encode draw for stream %s", e.Key)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stream_checkpoint_entries (checkpoint_id, position, stream_key, draw, state)
			VALUES ($1, $2, $3, $4, $5)
		`, cp.ID.String(), e.Index, e.Key.String(), draw, e.State)
		if err != nil {
			return errors.DatabaseError("failed to insert checkpoint entry", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit checkpoint", err)
	}
	return nil
}

// Get retrieves a checkpoint with its entries ordered by position
func (r *CheckpointRepositoryImpl) Get(ctx context.Context, id core.CheckpointID) (*stream.Checkpoint, error) {
	var row checkpointRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, label, master_seed, created_at
		FROM stream_checkpoints
		WHERE id = $1
	`, id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(core.ErrCheckpointNotFound, "checkpoint %s", id)
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load checkpoint", err)
	}

	var rows []entryRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT position, stream_key, draw, state
		FROM stream_checkpoint_entries
		WHERE checkpoint_id = $1
		ORDER BY position
	`, id.String())
	if err != nil {
		return nil, errors.DatabaseError("failed to load checkpoint entries", err)
	}

	cp := row.toDomain()
	cp.Entries = make([]stream.EntryState, 0, len(rows))
	for _, er := range rows {
		var draw stream.DrawSpec
		if err := json.Unmarshal(er.Draw, &draw); err != nil {
			return nil, errors.Wrapf(err, "failed to decode draw for stream %s", er.Key)
		}
		cp.Entries = append(cp.Entries, stream.EntryState{
			Key:   core.StreamKey(er.Key),
			Index: er.Position,
			Draw:  draw,
			State: er.State,
		})
	}
	return cp, nil
}

// List returns checkpoint headers, newest first
func (r *CheckpointRepositoryImpl) List(ctx context.Context, limit int) ([]*stream.Checkpoint, error) {
	query := `
		SELECT id, label, master_seed, created_at
		FROM stream_checkpoints
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []checkpointRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list checkpoints", err)
	}

	out := make([]*stream.Checkpoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Delete removes a checkpoint; entries cascade
func (r *CheckpointRepositoryImpl) Delete(ctx context.Context, id core.CheckpointID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stream_checkpoints WHERE id = $1`, id.String())
	if err != nil {
		return errors.DatabaseError("failed to delete checkpoint", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(core.ErrCheckpointNotFound, "checkpoint %s", id)
	}
	return nil
}
