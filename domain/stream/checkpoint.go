package stream

import (
	"time"

	"gostreams/domain/core"
)

// EntryState is one registry entry captured in a checkpoint.
type EntryState struct {
	Key   core.StreamKey `json:"key" db:"stream_key"`
	Index int            `json:"index" db:"position"`
	Draw  DrawSpec       `json:"draw"`
	State GeneratorState `json:"state" db:"state"`
}

// Checkpoint is a saved copy of every generator state in a registry.
type Checkpoint struct {
	ID         core.CheckpointID `json:"id" db:"id"`
	Label      string            `json:"label" db:"label"`
	MasterSeed uint32            `json:"master_seed" db:"master_seed"`
	Entries    []EntryState      `json:"entries"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}
