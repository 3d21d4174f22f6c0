package ports

import (
	"context"

	"gostreams/domain/core"
	"gostreams/domain/stream"
)

// CheckpointRepository persists registry checkpoints
type CheckpointRepository interface {
	// Save stores a checkpoint and all of its entry states
	Save(ctx context.Context, cp *stream.Checkpoint) error

	// Get loads a checkpoint by ID; core.ErrCheckpointNotFound when absent
	Get(ctx context.Context, id core.CheckpointID) (*stream.Checkpoint, error)

	// List returns checkpoint headers (without entries), newest first
	List(ctx context.Context, limit int) ([]*stream.Checkpoint, error)

	// Delete removes a checkpoint
	Delete(ctx context.Context, id core.CheckpointID) error
}
