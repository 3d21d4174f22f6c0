// Package mt19937 provides a Mersenne Twister generator whose seeding,
// state layout and sampling routines match NumPy's legacy RandomState, so
// streams seeded here reproduce numpy.random.RandomState(seed) bit for bit.
package mt19937

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"gostreams/domain/stream"
	"gostreams/ports"
)

const (
	mtN        = stream.StateWords
	mtM        = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	temperingB = 0x9d2c5680
	temperingC = 0xefc60000
)

// RandomState is a NumPy-compatible MT19937 generator.
type RandomState struct {
	mt       [mtN]uint32
	mti      int
	hasGauss bool
	gauss    float64
}

var _ ports.Generator = (*RandomState)(nil)

// New creates a generator equivalent to numpy.random.RandomState(seed).
func New(seed uint32) *RandomState {
	rs := &RandomState{}
	rs.Seed(seed)
	return rs
}

// Factory adapts New to ports.GeneratorFactory.
func Factory(seed uint32) ports.Generator {
	return New(seed)
}

// NewFromEntropy seeds a generator from crypto/rand, the analogue of
// numpy.random.RandomState() with no argument.
func NewFromEntropy() (*RandomState, error) {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read entropy seed: %w", err)
	}
	return New(binary.LittleEndian.Uint32(b[:])), nil
}

// Seed runs init_genrand and clears the cached gaussian.
func (rs *RandomState) Seed(seed uint32) {
	rs.mt[0] = seed
	for i := 1; i < mtN; i++ {
		rs.mt[i] = 1812433253*(rs.mt[i-1]^(rs.mt[i-1]>>30)) + uint32(i)
	}
	rs.mti = mtN
	rs.hasGauss = false
	rs.gauss = 0
}

func (rs *RandomState) twist() {
	var y uint32
	mag01 := [2]uint32{0, matrixA}

	var kk int
	for kk = 0; kk < mtN-mtM; kk++ {
		y = (rs.mt[kk] & upperMask) | (rs.mt[kk+1] & lowerMask)
		rs.mt[kk] = rs.mt[kk+mtM] ^ (y >> 1) ^ mag01[y&1]
	}
	for ; kk < mtN-1; kk++ {
		y = (rs.mt[kk] & upperMask) | (rs.mt[kk+1] & lowerMask)
		rs.mt[kk] = rs.mt[kk+(mtM-mtN)] ^ (y >> 1) ^ mag01[y&1]
	}
	y = (rs.mt[mtN-1] & upperMask) | (rs.mt[0] & lowerMask)
	rs.mt[mtN-1] = rs.mt[mtM-1] ^ (y >> 1) ^ mag01[y&1]
	rs.mti = 0
}

// Uint32 returns the next tempered 32-bit output.
func (rs *RandomState) Uint32() uint32 {
	if rs.mti >= mtN {
		rs.twist()
	}

	y := rs.mt[rs.mti]
	rs.mti++

	y ^= y >> 11
	y ^= (y << 7) & temperingB
	y ^= (y << 15) & temperingC
	y ^= y >> 18

	return y
}

// Uint64 joins two outputs, high word first.
func (rs *RandomState) Uint64() uint64 {
	hi := uint64(rs.Uint32())
	lo := uint64(rs.Uint32())
	return hi<<32 | lo
}

// RandomSample returns a double in [0, 1) built from 27+26 random bits.
func (rs *RandomState) RandomSample() float64 {
	a := rs.Uint32() >> 5
	b := rs.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}

// Gauss draws a standard normal with the polar method. Deviates come in
// pairs; the second one is cached and returned by the next call.
func (rs *RandomState) Gauss() float64 {
	if rs.hasGauss {
		tmp := rs.gauss
		rs.hasGauss = false
		rs.gauss = 0
		return tmp
	}

	var x1, x2, r2 float64
	for {
		x1 = 2.0*rs.RandomSample() - 1.0
		x2 = 2.0*rs.RandomSample() - 1.0
		r2 = x1*x1 + x2*x2
		if r2 < 1.0 && r2 != 0.0 {
			break
		}
	}
	f := math.Sqrt(-2.0 * math.Log(r2) / r2)
	rs.gauss = f * x1
	rs.hasGauss = true
	return f * x2
}

// Interval returns a value in [0, max], rejecting masked draws above max.
// Ranges that fit in 32 bits consume one output per attempt, wider ranges two.
func (rs *RandomState) Interval(max uint64) uint64 {
	if max == 0 {
		return 0
	}
	mask := uint64(math.MaxUint64) >> bits.LeadingZeros64(max)

	if max <= math.MaxUint32 {
		for {
			v := uint64(rs.Uint32()) & mask
			if v <= max {
				return v
			}
		}
	}
	for {
		v := rs.Uint64() & mask
		if v <= max {
			return v
		}
	}
}

// RandInt mirrors RandomState.randint(low, high): a value in [low, high).
func (rs *RandomState) RandInt(low, high int64) (int64, error) {
	if low >= high {
		return 0, fmt.Errorf("low >= high (%d >= %d)", low, high)
	}
	return low + int64(rs.Interval(uint64(high-low-1))), nil
}

// State returns a deep copy in get_state() layout.
func (rs *RandomState) State() stream.GeneratorState {
	key := make([]uint32, mtN)
	copy(key, rs.mt[:])
	return stream.GeneratorState{
		Algorithm:      stream.AlgorithmMT19937,
		Key:            key,
		Pos:            rs.mti,
		HasGauss:       rs.hasGauss,
		CachedGaussian: rs.gauss,
	}
}

// SetState loads a state captured by State (or by NumPy's get_state()).
func (rs *RandomState) SetState(state stream.GeneratorState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	copy(rs.mt[:], state.Key)
	rs.mti = state.Pos
	rs.hasGauss = state.HasGauss
	rs.gauss = state.CachedGaussian
	if !rs.hasGauss {
		rs.gauss = 0
	}
	return nil
}
