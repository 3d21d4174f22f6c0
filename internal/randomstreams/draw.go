package randomstreams

import (
	"gostreams/domain/core"
	"gostreams/domain/stream"
)

// Draw is the symbolic placeholder returned by a registration. It holds no
// numeric state; every Sample reads the generator currently registered
// under RNG() in the owning registry.
type Draw struct {
	key   core.StreamKey
	spec  stream.DrawSpec
	owner *RandomStreams
}

// RNG is the registry key of the generator feeding this draw.
func (d *Draw) RNG() core.StreamKey { return d.key }

// Spec describes the distribution and shape of the draw.
func (d *Draw) Spec() stream.DrawSpec { return d.spec }

// Shape is the shape of each sampled tensor.
func (d *Draw) Shape() stream.Shape { return d.spec.OutputShape() }

// Owner is the registry the draw was registered with.
func (d *Draw) Owner() *RandomStreams { return d.owner }

// Sample advances this draw's generator and returns one tensor.
// It fails with core.ErrUninitialized until the registry has been seeded.
// Concurrent calls are serialized per draw.
func (d *Draw) Sample() (stream.Tensor, error) {
	return d.owner.sampleEntry(d.key, d.spec)
}
