package mt19937

import (
	"testing"

	"gostreams/domain/core"
	"gostreams/domain/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint32MatchesReferenceSequence(t *testing.T) {
	rs := New(0)
	want := []uint32{2357136044, 2546248239, 3071714933, 3626093760}
	for i, w := range want {
		assert.Equal(t, w, rs.Uint32(), "output %d", i)
	}
}

func TestUint32TenThousandthOutputForDefaultSeed(t *testing.T) {
	rs := New(5489)
	var v uint32
	for i := 0; i < 10000; i++ {
		v = rs.Uint32()
	}
	assert.Equal(t, uint32(4123659995), v)
}

func TestRandomSampleMatchesNumPy(t *testing.T) {
	// numpy.random.RandomState(0).random_sample(4)
	rs := New(0)
	want := []float64{0.5488135039273248, 0.7151893663724195, 0.6027633760716439, 0.5448831829968969}
	for i, w := range want {
		assert.Equal(t, w, rs.RandomSample(), "sample %d", i)
	}
}

func TestGaussMatchesNumPy(t *testing.T) {
	// numpy.random.RandomState(0).standard_normal(4)
	rs := New(0)
	want := []float64{1.764052345967664, 0.4001572083672233, 0.9787379841057392, 2.240893199201458}
	for i, w := range want {
		assert.InDelta(t, w, rs.Gauss(), 1e-15, "deviate %d", i)
	}
}

func TestRandIntMatchesNumPy(t *testing.T) {
	// numpy.random.RandomState(0).randint(10) == 5 after two rejections
	v, err := New(0).RandInt(0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	// randint(2**30) masks the first output to 30 bits
	v, err = New(0).RandInt(0, 1<<30)
	require.NoError(t, err)
	assert.Equal(t, int64(2357136044&0x3fffffff), v)

	_, err = New(0).RandInt(3, 3)
	assert.Error(t, err)
}

func TestIntervalEdges(t *testing.T) {
	rs := New(1)
	before := rs.State()
	assert.Equal(t, uint64(0), rs.Interval(0))
	assert.Equal(t, before.Fingerprint(), rs.State().Fingerprint(), "Interval(0) must not consume output")

	for i := 0; i < 1000; i++ {
		v := rs.Interval(6)
		assert.LessOrEqual(t, v, uint64(6))
	}

	wide := uint64(1) << 40
	for i := 0; i < 100; i++ {
		assert.LessOrEqual(t, rs.Interval(wide), wide)
	}
}

func TestSeedResetsStream(t *testing.T) {
	rs := New(42)
	first := rs.RandomSample()
	rs.Gauss()
	rs.Seed(42)
	assert.Equal(t, first, rs.RandomSample())
	assert.False(t, rs.State().HasGauss)
}

func TestStateRoundTrip(t *testing.T) {
	src := New(888)
	for i := 0; i < 700; i++ {
		src.RandomSample()
	}
	src.Gauss()

	dst, err := NewFromEntropy()
	require.NoError(t, err)
	require.NoError(t, dst.SetState(src.State()))

	for i := 0; i < 10; i++ {
		assert.Equal(t, src.Gauss(), dst.Gauss())
		assert.Equal(t, src.RandomSample(), dst.RandomSample())
	}
}

func TestStateIsDeepCopy(t *testing.T) {
	rs := New(7)
	state := rs.State()
	state.Key[0] ^= 1
	assert.NotEqual(t, state.Fingerprint(), rs.State().Fingerprint())
}

func TestSetStateRejectsBadLayout(t *testing.T) {
	rs := New(1)
	before := rs.State().Fingerprint()

	err := rs.SetState(stream.GeneratorState{Algorithm: stream.AlgorithmMT19937, Key: []uint32{1}})
	assert.ErrorIs(t, err, core.ErrInvalidState)
	assert.Equal(t, before, rs.State().Fingerprint())
}
