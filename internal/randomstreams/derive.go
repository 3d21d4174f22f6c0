package randomstreams

import (
	"gostreams/adapters/mt19937"
)

// substreamMax is the inclusive upper bound of a derived seed, i.e.
// draws are taken from [0, 2^30) like RandomState.randint(2**30).
const substreamMax = 1<<30 - 1

// seedDeriver hands out substream seeds in registration order.
type seedDeriver struct {
	gen *mt19937.RandomState
}

func newSeedDeriver(master uint32) *seedDeriver {
	return &seedDeriver{gen: mt19937.New(master)}
}

// next returns the following 30-bit seed. Values always fit in a signed
// 32-bit integer, so the uint32 conversion is lossless on every platform.
func (d *seedDeriver) next() uint32 {
	return uint32(d.gen.Interval(substreamMax))
}

// SubstreamSeeds returns the seeds the first n registered draws receive
// when a registry is initialized with master. A negative n yields none.
func SubstreamSeeds(master uint32, n int) []uint32 {
	if n < 0 {
		n = 0
	}
	d := newSeedDeriver(master)
	seeds := make([]uint32, n)
	for i := range seeds {
		seeds[i] = d.next()
	}
	return seeds
}

// SubstreamSeed returns the seed of the i-th registered draw (0-based).
func SubstreamSeed(master uint32, i uint) uint32 {
	d := newSeedDeriver(master)
	for ; i > 0; i-- {
		d.next()
	}
	return d.next()
}
