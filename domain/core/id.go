package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// StreamKey identifies the generator slot feeding one registered draw.
	StreamKey ID
	// CheckpointID identifies a saved snapshot of registry state.
	CheckpointID ID
)

// NewStreamKey returns a fresh, time-ordered stream key.
func NewStreamKey() StreamKey { return StreamKey(NewID()) }

// NewCheckpointID returns a fresh checkpoint identifier.
func NewCheckpointID() CheckpointID { return CheckpointID(NewID()) }

func (k StreamKey) String() string     { return ID(k).String() }
func (c CheckpointID) String() string { return ID(c).String() }

// ParseStreamKey parses a string into StreamKey
func ParseStreamKey(s string) (StreamKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("stream key cannot be empty")
	}
	return StreamKey(s), nil
}

// ParseCheckpointID parses a string into CheckpointID
func ParseCheckpointID(s string) (CheckpointID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("checkpoint ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("checkpoint ID %q is not a UUID: %w", s, err)
	}
	return CheckpointID(s), nil
}

// ParseSeed parses a decimal seed and checks it fits the generator's 32-bit seed space.
func ParseSeed(s string) (uint32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSeedOutOfRange, s)
	}
	return CheckSeed(v)
}

// CheckSeed narrows a signed seed to uint32, rejecting values outside [0, 2^32).
func CheckSeed(v int64) (uint32, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: got %d", ErrSeedOutOfRange, v)
	}
	return uint32(v), nil
}
