package app

import (
	"context"
	"errors"
	"testing"

	"gostreams/adapters/memory"
	"gostreams/domain/core"
	"gostreams/domain/stream"
	"gostreams/internal"
	"gostreams/internal/randomstreams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckpointRepository records calls for failure-path tests
type MockCheckpointRepository struct {
	mock.Mock
}

func (m *MockCheckpointRepository) Save(ctx context.Context, cp *stream.Checkpoint) error {
	args := m.Called(ctx, cp)
	return args.Error(0)
}

func (m *MockCheckpointRepository) Get(ctx context.Context, id core.CheckpointID) (*stream.Checkpoint, error) {
	args := m.Called(ctx, id)
	cp, _ := args.Get(0).(*stream.Checkpoint)
	return cp, args.Error(1)
}

func (m *MockCheckpointRepository) List(ctx context.Context, limit int) ([]*stream.Checkpoint, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*stream.Checkpoint), args.Error(1)
}

func (m *MockCheckpointRepository) Delete(ctx context.Context, id core.CheckpointID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var quiet = internal.NewLogger(internal.LogLevelError)

func TestCheckpointSaveRestore(t *testing.T) {
	ctx := context.Background()
	svc := NewCheckpointService(memory.NewCheckpointRepository(), quiet)

	random := randomstreams.New(234, randomstreams.WithLogger(quiet))
	d, err := random.Uniform(stream.Shape{2, 2})
	require.NoError(t, err)
	random.Initialize()

	cp, err := svc.Save(ctx, random, "before")
	require.NoError(t, err)
	assert.Equal(t, uint32(234), cp.MasterSeed)
	require.Len(t, cp.Entries, 1)

	want, err := d.Sample()
	require.NoError(t, err)

	random.Seed(888)
	_, err = svc.Restore(ctx, random, cp.ID)
	require.NoError(t, err)

	got, err := d.Sample()
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)

	list, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCheckpointSaveBeforeInitialize(t *testing.T) {
	repo := new(MockCheckpointRepository)
	svc := NewCheckpointService(repo, quiet)

	random := randomstreams.New(1, randomstreams.WithLogger(quiet))
	_, err := random.Uniform(stream.Shape{1})
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), random, "early")
	assert.ErrorIs(t, err, core.ErrUninitialized)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCheckpointSavePropagatesRepositoryError(t *testing.T) {
	repo := new(MockCheckpointRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	svc := NewCheckpointService(repo, quiet)

	random := randomstreams.New(1, randomstreams.WithLogger(quiet))
	random.Initialize()

	_, err := svc.Save(context.Background(), random, "x")
	assert.ErrorContains(t, err, "disk full")
	repo.AssertExpectations(t)
}

func TestCheckpointRestoreUnknownID(t *testing.T) {
	svc := NewCheckpointService(memory.NewCheckpointRepository(), quiet)
	random := randomstreams.New(1, randomstreams.WithLogger(quiet))

	_, err := svc.Restore(context.Background(), random, core.NewCheckpointID())
	assert.ErrorIs(t, err, core.ErrCheckpointNotFound)
}

func TestCheckpointRestoreIntoRebuiltRegistry(t *testing.T) {
	ctx := context.Background()
	svc := NewCheckpointService(memory.NewCheckpointRepository(), quiet)

	a := randomstreams.New(234, randomstreams.WithLogger(quiet))
	da, err := a.Uniform(stream.Shape{2, 2})
	require.NoError(t, err)
	a.Initialize()
	cp, err := svc.Save(ctx, a, "a")
	require.NoError(t, err)
	want, err := da.Sample()
	require.NoError(t, err)

	b := randomstreams.New(234, randomstreams.WithLogger(quiet))
	db, err := b.Uniform(stream.Shape{2, 2})
	require.NoError(t, err)

	_, err = svc.Restore(ctx, b, cp.ID)
	require.NoError(t, err)
	got, err := db.Sample()
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)
}

func TestCheckpointRestoreIntoDifferentLayout(t *testing.T) {
	ctx := context.Background()
	svc := NewCheckpointService(memory.NewCheckpointRepository(), quiet)

	a := randomstreams.New(1, randomstreams.WithLogger(quiet))
	_, err := a.Uniform(stream.Shape{1})
	require.NoError(t, err)
	a.Initialize()
	cp, err := svc.Save(ctx, a, "a")
	require.NoError(t, err)

	b := randomstreams.New(1, randomstreams.WithLogger(quiet))
	_, err = b.Uniform(stream.Shape{2})
	require.NoError(t, err)

	_, err = svc.Restore(ctx, b, cp.ID)
	assert.ErrorIs(t, err, core.ErrStreamNotFound)
}

func TestCheckpointDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewCheckpointService(memory.NewCheckpointRepository(), quiet)
	random := randomstreams.New(1, randomstreams.WithLogger(quiet))
	random.Initialize()

	cp, err := svc.Save(ctx, random, "gone")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, cp.ID))
	assert.ErrorIs(t, svc.Delete(ctx, cp.ID), core.ErrCheckpointNotFound)

	list, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
