package stream

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gostreams/domain/core"
)

// Shape is a fixed tuple of positive dimensions.
type Shape []int

// MaxSize caps the number of elements one sampled tensor may hold.
const MaxSize = 1 << 28

// Validate rejects empty shapes, non-positive dimensions and shapes holding
// more than MaxSize elements.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return core.NewShapeError(s, "shape must have at least one dimension")
	}
	n := 1
	for i, d := range s {
		if d <= 0 {
			return core.NewShapeError(s, fmt.Sprintf("dimension %d is %d, must be positive", i, d))
		}
		if d > MaxSize/n {
			return core.NewShapeError(s, fmt.Sprintf("more than %d elements", MaxSize))
		}
		n *= d
	}
	return nil
}

// Size returns the number of elements a tensor of this shape holds.
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Clone returns a copy that does not alias s.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

func (s Shape) String() string {
	return fmt.Sprint([]int(s))
}

// Distribution names the sampling routine a draw uses.
type Distribution string

const (
	DistUniform        Distribution = "uniform"
	DistNormal         Distribution = "normal"
	DistRandomIntegers Distribution = "random_integers"
	DistPermutation    Distribution = "permutation"
)

// DrawSpec is everything needed to reproduce one sampling call.
type DrawSpec struct {
	Dist  Distribution `json:"dist"`
	Shape Shape        `json:"shape"`

	// Uniform: [Low, High); Normal: Low=avg, High=std.
	Low  float64 `json:"low"`
	High float64 `json:"high"`

	// RandomIntegers: inclusive [IntLow, IntHigh].
	IntLow  int64 `json:"int_low,omitempty"`
	IntHigh int64 `json:"int_high,omitempty"`

	// Permutation: permutations of 0..N-1.
	N int `json:"n,omitempty"`
}

// Equal compares every field, including the distribution parameters.
func (d DrawSpec) Equal(o DrawSpec) bool {
	if d.Dist != o.Dist || len(d.Shape) != len(o.Shape) {
		return false
	}
	for i := range d.Shape {
		if d.Shape[i] != o.Shape[i] {
			return false
		}
	}
	return d.Low == o.Low && d.High == o.High &&
		d.IntLow == o.IntLow && d.IntHigh == o.IntHigh && d.N == o.N
}

// OutputShape is the shape of the tensor a call produces.
func (d DrawSpec) OutputShape() Shape {
	if d.Dist == DistPermutation {
		return append(d.Shape.Clone(), d.N)
	}
	return d.Shape.Clone()
}

// AlgorithmMT19937 is the only state layout generators currently expose.
const AlgorithmMT19937 = "MT19937"

// StateWords is the MT19937 key length.
const StateWords = 624

// GeneratorState is the full internal state of a generator handle, laid out
// like NumPy's RandomState.get_state() tuple.
type GeneratorState struct {
	Algorithm      string   `json:"algorithm"`
	Key            []uint32 `json:"key"`
	Pos            int      `json:"pos"`
	HasGauss       bool     `json:"has_gauss"`
	CachedGaussian float64  `json:"cached_gaussian"`
}

// Validate checks the layout before it is loaded into a generator.
func (s GeneratorState) Validate() error {
	if s.Algorithm != AlgorithmMT19937 {
		return core.NewStateError(fmt.Sprintf("algorithm %q is not %s", s.Algorithm, AlgorithmMT19937))
	}
	if len(s.Key) != StateWords {
		return core.NewStateError(fmt.Sprintf("key has %d words, want %d", len(s.Key), StateWords))
	}
	if s.Pos < 0 || s.Pos > StateWords {
		return core.NewStateError(fmt.Sprintf("position %d outside [0, %d]", s.Pos, StateWords))
	}
	return nil
}

// Fingerprint hashes the state for logs and equality checks.
func (s GeneratorState) Fingerprint() core.StateHash {
	return core.ComputeStateHash(s.Key, s.Pos, s.HasGauss, s.CachedGaussian)
}

// Value implements driver.Valuer so states can live in JSONB columns.
func (s GeneratorState) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *GeneratorState) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	case nil:
		return core.NewStateError("NULL state")
	default:
		return fmt.Errorf("cannot scan %T into GeneratorState", value)
	}
	return json.Unmarshal(bytes, s)
}
