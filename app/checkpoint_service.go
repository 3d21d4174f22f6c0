package app

import (
	"context"
	"fmt"

	"gostreams/domain/core"
	"gostreams/domain/stream"
	"gostreams/internal"
	"gostreams/internal/randomstreams"
	"gostreams/ports"
)

// CheckpointService saves and restores registry generator states
type CheckpointService struct {
	repo   ports.CheckpointRepository
	logger *internal.Logger
}

// NewCheckpointService creates a checkpoint service
func NewCheckpointService(repo ports.CheckpointRepository, logger *internal.Logger) *CheckpointService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CheckpointService{
		repo:   repo,
		logger: logger.With("checkpoints"),
	}
}

// Save captures every entry of random under a new checkpoint ID
func (s *CheckpointService) Save(ctx context.Context, random *randomstreams.RandomStreams, label string) (*stream.Checkpoint, error) {
	entries, err := random.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}

	cp := &stream.Checkpoint{
		ID:         core.NewCheckpointID(),
		Label:      label,
		MasterSeed: random.MasterSeed(),
		Entries:    entries,
	}
	if err := s.repo.Save(ctx, cp); err != nil {
		return nil, fmt.Errorf("saving checkpoint: %w", err)
	}

	s.logger.Info("saved checkpoint %s (%q, %d streams)", cp.ID, label, len(entries))
	return cp, nil
}

// Restore loads checkpoint id into random. Entries are matched by key, or by
// registration index and identical draw when the checkpoint was saved by
// another process; nothing changes if any entry fails to load.
func (s *CheckpointService) Restore(ctx context.Context, random *randomstreams.RandomStreams, id core.CheckpointID) (*stream.Checkpoint, error) {
	cp, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := random.Restore(cp.Entries); err != nil {
		return nil, fmt.Errorf("restoring checkpoint %s: %w", id, err)
	}

	s.logger.Info("restored checkpoint %s (%d streams)", id, len(cp.Entries))
	return cp, nil
}

// List returns checkpoint headers, newest first
func (s *CheckpointService) List(ctx context.Context, limit int) ([]*stream.Checkpoint, error) {
	return s.repo.List(ctx, limit)
}

// Delete removes checkpoint id
func (s *CheckpointService) Delete(ctx context.Context, id core.CheckpointID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted checkpoint %s", id)
	return nil
}
