package diagnostics

import (
	"testing"

	"gostreams/adapters/mt19937"
	"gostreams/domain/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUniformSampleIsPlausible(t *testing.T) {
	rs := mt19937.New(2024)
	data := make([]float64, 5000)
	for i := range data {
		data[i] = rs.RandomSample()
	}

	report, err := NewAnalyzer().Check(data, stream.DrawSpec{Dist: stream.DistUniform, Shape: stream.Shape{5000}, Low: 0, High: 1})
	require.NoError(t, err)
	require.NotNil(t, report.Fit)

	assert.InDelta(t, 0.5, report.Summary.Mean, 0.02)
	assert.GreaterOrEqual(t, report.Summary.Min, 0.0)
	assert.Less(t, report.Summary.Max, 1.0)
	assert.Less(t, report.Fit.Statistic, 0.05)
}

func TestCheckNormalSample(t *testing.T) {
	rs := mt19937.New(7)
	data := make([]float64, 5000)
	for i := range data {
		data[i] = 3 + 2*rs.Gauss()
	}

	report, err := NewAnalyzer().Check(data, stream.DrawSpec{Dist: stream.DistNormal, Shape: stream.Shape{5000}, Low: 3, High: 2})
	require.NoError(t, err)
	require.NotNil(t, report.Fit)

	assert.InDelta(t, 3, report.Summary.Mean, 0.1)
	assert.InDelta(t, 2, report.Summary.StdDev, 0.1)
	assert.InDelta(t, 0, report.Summary.Skewness, 0.2)
	assert.InDelta(t, 3, report.Summary.Kurtosis, 0.3)
	assert.Less(t, report.Fit.Statistic, 0.05)
}

func TestCheckFlagsWrongDistribution(t *testing.T) {
	rs := mt19937.New(1)
	data := make([]float64, 2000)
	for i := range data {
		data[i] = rs.RandomSample()
	}

	// uniform data tested against N(0, 1)
	report, err := NewAnalyzer().Check(data, stream.DrawSpec{Dist: stream.DistNormal, Low: 0, High: 1})
	require.NoError(t, err)
	require.NotNil(t, report.Fit)
	assert.False(t, report.Fit.Plausible)
	assert.Less(t, report.Fit.PValue, Alpha)
}

func TestCheckDiscreteDrawHasNoFit(t *testing.T) {
	report, err := NewAnalyzer().Check([]float64{0, 1, 2, 1}, stream.DrawSpec{Dist: stream.DistRandomIntegers, IntLow: 0, IntHigh: 2})
	require.NoError(t, err)
	assert.Nil(t, report.Fit)
	assert.Equal(t, 4, report.Summary.N)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.Error(t, err)
}

func TestKSPValueBounds(t *testing.T) {
	assert.Equal(t, 1.0, ksPValue(0, 100))
	assert.InDelta(t, 0.0, ksPValue(0.5, 1000), 1e-12)
	p := ksPValue(0.02, 1000)
	assert.Greater(t, p, 0.5)
	assert.LessOrEqual(t, p, 1.0)
}
