// Package compile binds registered draws to named, callable methods.
//
// A Module owns one RandomStreams registry. Methods list the draws they
// output; Make freezes the module into a Made whose Call samples every
// output of a method from the generators currently in the registry.
package compile

import (
	"context"
	"fmt"
	"sort"

	"gostreams/domain/core"
	"gostreams/domain/stream"
	"gostreams/internal/randomstreams"

	"golang.org/x/sync/errgroup"
)

// Module collects methods over a single registry.
type Module struct {
	random  *randomstreams.RandomStreams
	methods map[string][]*randomstreams.Draw
}

// NewModule creates a module around random.
func NewModule(random *randomstreams.RandomStreams) *Module {
	return &Module{
		random:  random,
		methods: make(map[string][]*randomstreams.Draw),
	}
}

// Random returns the module's registry for registering draws.
func (m *Module) Random() *randomstreams.RandomStreams {
	return m.random
}

// AddMethod declares a method with no inputs returning outputs in order.
// Re-adding a name replaces the earlier definition.
func (m *Module) AddMethod(name string, outputs ...*randomstreams.Draw) {
	m.methods[name] = append([]*randomstreams.Draw(nil), outputs...)
}

// Make validates the module and returns its callable form. Every output must
// belong to the module's registry.
func (m *Module) Make() (*Made, error) {
	methods := make(map[string][]*randomstreams.Draw, len(m.methods))
	for name, outputs := range m.methods {
		if len(outputs) == 0 {
			return nil, fmt.Errorf("method %q has no outputs", name)
		}
		for _, d := range outputs {
			if d == nil || d.Owner() != m.random {
				return nil, fmt.Errorf("method %q: %w", name, core.ErrForeignDraw)
			}
		}
		methods[name] = outputs
	}
	return &Made{random: m.random, methods: methods}, nil
}

// Build registers one draw per spec and compiles them into a module with a
// single method returning every draw in order.
func Build(random *randomstreams.RandomStreams, method string, specs []stream.DrawSpec) (*Made, error) {
	m := NewModule(random)
	outputs := make([]*randomstreams.Draw, 0, len(specs))
	for i, spec := range specs {
		d, err := random.Register(spec)
		if err != nil {
			return nil, fmt.Errorf("draw %d: %w", i, err)
		}
		outputs = append(outputs, d)
	}
	m.AddMethod(method, outputs...)
	return m.Make()
}

// Made is a compiled module.
type Made struct {
	random  *randomstreams.RandomStreams
	methods map[string][]*randomstreams.Draw
}

// Random exposes the registry for Initialize/Seed/Get/Set.
func (m *Made) Random() *randomstreams.RandomStreams {
	return m.random
}

// Methods lists method names in lexical order.
func (m *Made) Methods() []string {
	names := make([]string, 0, len(m.methods))
	for name := range m.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Outputs returns the draws of a method.
func (m *Made) Outputs(name string) ([]*randomstreams.Draw, error) {
	outputs, ok := m.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrMethodNotFound, name)
	}
	return outputs, nil
}

// Call samples every output of the method once. Outputs with distinct
// streams are sampled concurrently; a draw listed twice in one method is
// sampled once and its value repeated.
func (m *Made) Call(ctx context.Context, name string) ([]stream.Tensor, error) {
	outputs, err := m.Outputs(name)
	if err != nil {
		return nil, err
	}

	first := make(map[core.StreamKey]int, len(outputs))
	results := make([]stream.Tensor, len(outputs))

	g, ctx := errgroup.WithContext(ctx)
	for i, d := range outputs {
		if _, dup := first[d.RNG()]; dup {
			continue
		}
		first[d.RNG()] = i
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := d.Sample()
			if err != nil {
				return fmt.Errorf("method %q output %d: %w", name, i, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, d := range outputs {
		if j := first[d.RNG()]; j != i {
			results[i] = results[j]
		}
	}
	return results, nil
}

// CallOne is Call for single-output methods.
func (m *Made) CallOne(ctx context.Context, name string) (stream.Tensor, error) {
	values, err := m.Call(ctx, name)
	if err != nil {
		return stream.Tensor{}, err
	}
	if len(values) != 1 {
		return stream.Tensor{}, fmt.Errorf("method %q has %d outputs, want 1", name, len(values))
	}
	return values[0], nil
}
