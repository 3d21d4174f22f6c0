package ports

import (
	"gostreams/domain/stream"
)

// Generator is one independent pseudo-random generator handle.
// Implementations are not safe for concurrent use; a registry entry owns its handle.
type Generator interface {
	// Seed resets the generator to the deterministic state for seed,
	// discarding any cached gaussian.
	Seed(seed uint32)

	// RandomSample returns a double in [0, 1) with 53 bits of precision.
	RandomSample() float64

	// Gauss returns a standard normal deviate.
	Gauss() float64

	// Interval returns an integer in [0, max] by masked rejection sampling.
	Interval(max uint64) uint64

	// State returns a deep copy of the full internal state.
	State() stream.GeneratorState

	// SetState replaces the internal state; invalid layouts are rejected.
	SetState(state stream.GeneratorState) error
}

// GeneratorFactory builds fresh generators seeded with a substream seed.
type GeneratorFactory func(seed uint32) Generator
