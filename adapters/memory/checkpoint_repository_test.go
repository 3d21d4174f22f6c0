package memory

import (
	"context"
	"testing"
	"time"

	"gostreams/adapters/mt19937"
	"gostreams/domain/core"
	"gostreams/domain/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCheckpoint(label string, at time.Time) *stream.Checkpoint {
	return &stream.Checkpoint{
		ID:         core.NewCheckpointID(),
		Label:      label,
		MasterSeed: 234,
		CreatedAt:  at,
		Entries: []stream.EntryState{{
			Key:   core.NewStreamKey(),
			Draw:  stream.DrawSpec{Dist: stream.DistUniform, Shape: stream.Shape{2}},
			State: mt19937.New(1).State(),
		}},
	}
}

func TestCheckpointRepositoryStoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewCheckpointRepository()

	cp := sampleCheckpoint("a", time.Time{})
	require.NoError(t, repo.Save(ctx, cp))
	assert.False(t, cp.CreatedAt.IsZero())

	want := cp.Entries[0].State.Fingerprint()
	cp.Entries[0].State.Key[0]++

	loaded, err := repo.Get(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, want, loaded.Entries[0].State.Fingerprint())

	loaded.Entries[0].State.Key[0]++
	again, err := repo.Get(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, want, again.Entries[0].State.Fingerprint())
}

func TestCheckpointRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewCheckpointRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, label := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Save(ctx, sampleCheckpoint(label, base.Add(time.Duration(i)*time.Hour))))
	}

	list, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Label)
	assert.Equal(t, "mid", list[1].Label)
	assert.Nil(t, list[0].Entries)
}

func TestCheckpointRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewCheckpointRepository()

	_, err := repo.Get(ctx, core.NewCheckpointID())
	assert.ErrorIs(t, err, core.ErrCheckpointNotFound)

	cp := sampleCheckpoint("gone", time.Now())
	require.NoError(t, repo.Save(ctx, cp))
	require.NoError(t, repo.Delete(ctx, cp.ID))
	assert.ErrorIs(t, repo.Delete(ctx, cp.ID), core.ErrCheckpointNotFound)
}
