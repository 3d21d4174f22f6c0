package randomstreams

import (
	"fmt"

	"gostreams/domain/core"
	"gostreams/domain/stream"
)

// Snapshot copies every entry's generator state in registration order.
// Every entry must have been initialized.
func (r *RandomStreams) Snapshot() ([]stream.EntryState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stream.EntryState, 0, len(r.order))
	for i, key := range r.order {
		e, err := r.initialized(key)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		state := e.gen.State()
		e.mu.Unlock()
		out = append(out, stream.EntryState{
			Key:   key,
			Index: i,
			Draw:  e.draw.spec,
			State: state,
		})
	}
	return out, nil
}

// Restore loads saved states back into their entries. A state is matched by
// key; when the key is unknown (the states came from another process) it
// goes to the entry at the same registration index, provided that entry was
// registered with an identical draw. All entries are validated before any
// generator is touched, so a failed restore leaves the registry unchanged.
// Entries without a generator get a fresh one first.
func (r *RandomStreams) Restore(states []stream.EntryState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	targets := make([]*entry, len(states))
	claimed := make(map[*entry]core.StreamKey, len(states))
	for i, s := range states {
		e, err := r.match(s)
		if err != nil {
			return err
		}
		if prev, dup := claimed[e]; dup {
			return core.NewStateError(fmt.Sprintf("streams %s and %s both restore into %s", prev, s.Key, e.draw.key))
		}
		if err := s.State.Validate(); err != nil {
			return fmt.Errorf("stream %s: %w", s.Key, err)
		}
		claimed[e] = s.Key
		targets[i] = e
	}

	for i, s := range states {
		e := targets[i]
		if e.gen == nil {
			e.gen = r.factory(0)
		}
		if err := e.gen.SetState(s.State); err != nil {
			return fmt.Errorf("stream %s: %w", s.Key, err)
		}
	}
	r.logger.Info("restored %d of %d streams", len(states), len(r.order))
	return nil
}

// match must be called with r.mu held.
func (r *RandomStreams) match(s stream.EntryState) (*entry, error) {
	if e, ok := r.entries[s.Key]; ok {
		if !e.draw.spec.Equal(s.Draw) {
			return nil, core.NewStateError(fmt.Sprintf("stream %s was saved from %s, registry has %s",
				s.Key, describe(s.Draw), describe(e.draw.spec)))
		}
		return e, nil
	}
	if s.Index < 0 || s.Index >= len(r.order) {
		return nil, core.NewStreamNotFoundError(s.Key)
	}
	e := r.entries[r.order[s.Index]]
	if !e.draw.spec.Equal(s.Draw) {
		return nil, fmt.Errorf("%w (index %d holds %s, saved %s)",
			core.NewStreamNotFoundError(s.Key), s.Index, describe(e.draw.spec), describe(s.Draw))
	}
	return e, nil
}

func describe(d stream.DrawSpec) string {
	switch d.Dist {
	case stream.DistRandomIntegers:
		return fmt.Sprintf("%s%s[%d, %d]", d.Dist, d.Shape, d.IntLow, d.IntHigh)
	case stream.DistPermutation:
		return fmt.Sprintf("%s%s n=%d", d.Dist, d.Shape, d.N)
	default:
		return fmt.Sprintf("%s%s(%v, %v)", d.Dist, d.Shape, d.Low, d.High)
	}
}
