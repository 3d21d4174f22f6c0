// Package randomstreams implements a registry of seed-reproducible random
// generators bound to draw nodes.
//
// Draws are registered while a module is being built; each registration
// reserves a generator slot under a fresh StreamKey. Initialize (or Seed)
// derives one substream seed per slot, in registration order, from a
// temporary MT19937 seeded with the master seed, so the same master seed and
// the same registrations always reproduce the same samples.
package randomstreams

import (
	"fmt"
	"math"
	"sync"

	"gostreams/adapters/mt19937"
	"gostreams/domain/core"
	"gostreams/domain/stream"
	"gostreams/internal"
	"gostreams/ports"
)

// entry pairs a draw with its generator. mu serializes use of gen by
// holders of the registry read lock; writers of the registry lock own every
// entry outright.
type entry struct {
	mu   sync.Mutex
	draw *Draw
	gen  ports.Generator
}

// RandomStreams is an ordered registry of generator handles keyed by the
// draw they feed. The zero value is not usable; call New.
//
// Lock order is the registry lock, then an entry lock.
type RandomStreams struct {
	mu         sync.RWMutex
	masterSeed uint32
	factory    ports.GeneratorFactory
	order      []core.StreamKey
	entries    map[core.StreamKey]*entry
	logger     *internal.Logger
}

// Option configures a RandomStreams.
type Option func(*RandomStreams)

// WithFactory replaces the MT19937 factory used for fresh entries.
func WithFactory(f ports.GeneratorFactory) Option {
	return func(r *RandomStreams) { r.factory = f }
}

// WithLogger sets the logger; the default is internal.DefaultLogger.
func WithLogger(l *internal.Logger) Option {
	return func(r *RandomStreams) { r.logger = l }
}

// New creates an empty registry whose default seed is masterSeed.
func New(masterSeed uint32, opts ...Option) *RandomStreams {
	r := &RandomStreams{
		masterSeed: masterSeed,
		factory:    mt19937.Factory,
		entries:    make(map[core.StreamKey]*entry),
		logger:     internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("randomstreams")
	return r
}

// MasterSeed returns the seed Initialize uses when none is given.
func (r *RandomStreams) MasterSeed() uint32 {
	return r.masterSeed
}

// Uniform registers a U[0, 1) draw of the given shape.
func (r *RandomStreams) Uniform(shape stream.Shape) (*Draw, error) {
	return r.UniformBetween(shape, 0, 1)
}

// UniformBetween registers a U[low, high) draw.
func (r *RandomStreams) UniformBetween(shape stream.Shape, low, high float64) (*Draw, error) {
	if !finite(low) || !finite(high) {
		return nil, fmt.Errorf("%w: uniform bounds must be finite, got [%v, %v)", core.ErrInvalidBounds, low, high)
	}
	return r.register(stream.DrawSpec{Dist: stream.DistUniform, Shape: shape, Low: low, High: high})
}

// Normal registers a standard normal draw.
func (r *RandomStreams) Normal(shape stream.Shape) (*Draw, error) {
	return r.NormalWith(shape, 0, 1)
}

// NormalWith registers a N(avg, std^2) draw.
func (r *RandomStreams) NormalWith(shape stream.Shape, avg, std float64) (*Draw, error) {
	if !finite(avg) || !finite(std) || std < 0 {
		return nil, fmt.Errorf("%w: normal needs finite avg and std >= 0, got avg=%v std=%v", core.ErrInvalidBounds, avg, std)
	}
	return r.register(stream.DrawSpec{Dist: stream.DistNormal, Shape: shape, Low: avg, High: std})
}

// RandomIntegers registers a draw of integers uniform on [low, high], both inclusive.
func (r *RandomStreams) RandomIntegers(shape stream.Shape, low, high int64) (*Draw, error) {
	if low > high {
		return nil, fmt.Errorf("%w: random_integers low %d > high %d", core.ErrInvalidBounds, low, high)
	}
	return r.register(stream.DrawSpec{Dist: stream.DistRandomIntegers, Shape: shape, IntLow: low, IntHigh: high})
}

// Permutation registers a draw producing one permutation of 0..n-1 per
// element of shape; the output shape is shape + (n,).
func (r *RandomStreams) Permutation(shape stream.Shape, n int) (*Draw, error) {
	if n <= 0 {
		return nil, core.NewShapeError(append(shape.Clone(), n), "permutation length must be positive")
	}
	return r.register(stream.DrawSpec{Dist: stream.DistPermutation, Shape: shape, N: n})
}

// Register dispatches a parsed spec to the matching constructor.
func (r *RandomStreams) Register(spec stream.DrawSpec) (*Draw, error) {
	switch spec.Dist {
	case stream.DistUniform:
		return r.UniformBetween(spec.Shape, spec.Low, spec.High)
	case stream.DistNormal:
		return r.NormalWith(spec.Shape, spec.Low, spec.High)
	case stream.DistRandomIntegers:
		return r.RandomIntegers(spec.Shape, spec.IntLow, spec.IntHigh)
	case stream.DistPermutation:
		return r.Permutation(spec.Shape, spec.N)
	default:
		return nil, fmt.Errorf("%w: unknown distribution %q", core.ErrInvalidBounds, spec.Dist)
	}
}

func (r *RandomStreams) register(spec stream.DrawSpec) (*Draw, error) {
	if err := spec.Shape.Validate(); err != nil {
		return nil, err
	}
	if err := spec.OutputShape().Validate(); err != nil {
		return nil, err
	}
	spec.Shape = spec.Shape.Clone()

	d := &Draw{key: core.NewStreamKey(), spec: spec, owner: r}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, d.key)
	r.entries[d.key] = &entry{draw: d}
	r.logger.Trace("registered %s draw %s shape %s", spec.Dist, d.key, spec.Shape)
	return d, nil
}

// Initialize seeds every entry from the master seed given to New.
func (r *RandomStreams) Initialize() {
	r.InitializeWithSeed(r.masterSeed)
}

// InitializeWithSeed seeds every entry from seed instead of the master seed.
func (r *RandomStreams) InitializeWithSeed(seed uint32) {
	r.reseed(seed, "initialize")
}

// Seed re-derives every entry's generator from seed, discarding all state
// accumulated by earlier sampling.
func (r *RandomStreams) Seed(seed uint32) {
	r.reseed(seed, "seed")
}

func (r *RandomStreams) reseed(seed uint32, op string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deriver := newSeedDeriver(seed)
	for i, key := range r.order {
		e := r.entries[key]
		sub := deriver.next()
		if e.gen == nil {
			e.gen = r.factory(sub)
		} else {
			e.gen.Seed(sub)
		}
		r.logger.Debug("%s: stream %d (%s) <- substream seed %d", op, i, key, sub)
	}
	r.logger.Info("%s: %d streams seeded from %d", op, len(r.order), seed)
}

// Get returns the generator registered under key. The handle is shared with
// the registry: callers that use it while other goroutines sample the same
// draw must go through State or Set instead.
func (r *RandomStreams) Get(key core.StreamKey) (ports.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.initialized(key)
	if err != nil {
		return nil, err
	}
	return e.gen, nil
}

// State copies the state of the generator registered under key, ordered
// with respect to concurrent samples of the same draw.
func (r *RandomStreams) State(key core.StreamKey) (stream.GeneratorState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.initialized(key)
	if err != nil {
		return stream.GeneratorState{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen.State(), nil
}

// sampleEntry draws one tensor for key while holding its entry lock, so
// concurrent callers each consume a contiguous block of the stream.
func (r *RandomStreams) sampleEntry(key core.StreamKey, spec stream.DrawSpec) (stream.Tensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.initialized(key)
	if err != nil {
		return stream.Tensor{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return sample(e.gen, spec), nil
}

// initialized must be called with r.mu held.
func (r *RandomStreams) initialized(key core.StreamKey) (*entry, error) {
	e, ok := r.entries[key]
	if !ok {
		return nil, core.NewStreamNotFoundError(key)
	}
	if e.gen == nil {
		return nil, core.NewUninitializedError(key)
	}
	return e, nil
}

// Set replaces the generator registered under key. Subsequent samples for
// that key come from gen's current state; no other entry is touched.
func (r *RandomStreams) Set(key core.StreamKey, gen ports.Generator) error {
	if gen == nil {
		return fmt.Errorf("%w for stream %s", core.ErrNilGenerator, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return core.NewStreamNotFoundError(key)
	}
	e.gen = gen
	r.logger.Debug("stream %s generator replaced (state %s)", key, gen.State().Fingerprint().Short())
	return nil
}

// Contains reports whether key was registered here.
func (r *RandomStreams) Contains(key core.StreamKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of registered draws.
func (r *RandomStreams) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Keys returns the stream keys in registration order.
func (r *RandomStreams) Keys() []core.StreamKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]core.StreamKey, len(r.order))
	copy(keys, r.order)
	return keys
}

// Draws returns the registered draws in registration order.
func (r *RandomStreams) Draws() []*Draw {
	r.mu.RLock()
	defer r.mu.RUnlock()
	draws := make([]*Draw, len(r.order))
	for i, key := range r.order {
		draws[i] = r.entries[key].draw
	}
	return draws
}

// Lookup returns the draw registered under key.
func (r *RandomStreams) Lookup(key core.StreamKey) (*Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, core.NewStreamNotFoundError(key)
	}
	return e.draw, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
