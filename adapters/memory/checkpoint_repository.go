// Package memory holds process-local adapters used when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"gostreams/domain/core"
	"gostreams/domain/stream"
	"gostreams/internal/errors"
	"gostreams/ports"
)

// CheckpointRepository implements ports.CheckpointRepository with in-memory storage
type CheckpointRepository struct {
	checkpoints map[core.CheckpointID]*stream.Checkpoint
	mu          sync.RWMutex
}

var _ ports.CheckpointRepository = (*CheckpointRepository)(nil)

func NewCheckpointRepository() *CheckpointRepository {
	return &CheckpointRepository{
		checkpoints: make(map[core.CheckpointID]*stream.Checkpoint),
	}
}

func (r *CheckpointRepository) Save(ctx context.Context, cp *stream.Checkpoint) error {
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoints[cp.ID] = cloneCheckpoint(cp, true)
	return nil
}

func (r *CheckpointRepository) Get(ctx context.Context, id core.CheckpointID) (*stream.Checkpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp, ok := r.checkpoints[id]
	if !ok {
		return nil, errors.Wrapf(core.ErrCheckpointNotFound, "checkpoint %s", id)
	}
	return cloneCheckpoint(cp, true), nil
}

func (r *CheckpointRepository) List(ctx context.Context, limit int) ([]*stream.Checkpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*stream.Checkpoint, 0, len(r.checkpoints))
	for _, cp := range r.checkpoints {
		out = append(out, cloneCheckpoint(cp, false))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *CheckpointRepository) Delete(ctx context.Context, id core.CheckpointID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checkpoints[id]; !ok {
		return errors.Wrapf(core.ErrCheckpointNotFound, "checkpoint %s", id)
	}
	delete(r.checkpoints, id)
	return nil
}

// cloneCheckpoint deep-copies so callers cannot mutate stored states.
func cloneCheckpoint(cp *stream.Checkpoint, withEntries bool) *stream.Checkpoint {
	c := *cp
	c.Entries = nil
	if !withEntries {
		return &c
	}
	c.Entries = make([]stream.EntryState, len(cp.Entries))
	for i, e := range cp.Entries {
		e.Draw.Shape = e.Draw.Shape.Clone()
		e.State.Key = append([]uint32(nil), e.State.Key...)
		c.Entries[i] = e
	}
	return &c
}
