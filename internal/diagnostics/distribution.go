package diagnostics

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gostreams/domain/stream"
)

// Summary holds moment statistics of a sample
type Summary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Fit is a one-sample Kolmogorov-Smirnov comparison against the draw's
// nominal distribution.
type Fit struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Plausible bool    `json:"plausible"`
}

// Report combines both
type Report struct {
	Dist    stream.Distribution `json:"dist"`
	Summary Summary             `json:"summary"`
	Fit     *Fit                `json:"fit,omitempty"`
}

// Alpha is the significance level below which a fit is flagged implausible.
const Alpha = 0.01

// Analyzer checks sampled streams against their nominal distributions
type Analyzer struct{}

// NewAnalyzer creates a new analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Check summarizes data and, for continuous draws, runs a KS test against
// the distribution described by spec.
func (a *Analyzer) Check(data []float64, spec stream.DrawSpec) (*Report, error) {
	summary, err := Summarize(data)
	if err != nil {
		return nil, err
	}
	report := &Report{Dist: spec.Dist, Summary: summary}

	var cdf func(float64) float64
	switch spec.Dist {
	case stream.DistUniform:
		if spec.High <= spec.Low {
			break
		}
		cdf = distuv.Uniform{Min: spec.Low, Max: spec.High}.CDF
	case stream.DistNormal:
		if spec.High <= 0 {
			break
		}
		cdf = distuv.Normal{Mu: spec.Low, Sigma: spec.High}.CDF
	}
	if cdf != nil {
		d := ksStatistic(data, cdf)
		p := ksPValue(d, len(data))
		report.Fit = &Fit{Statistic: d, PValue: p, Plausible: p >= Alpha}
	}
	return report, nil
}

// Summarize computes moment statistics
func Summarize(data []float64) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, fmt.Errorf("cannot summarize an empty sample")
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return Summary{}, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return Summary{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		N:        len(data),
		Mean:     mean,
		StdDev:   stdDev,
		Min:      min,
		Max:      max,
		Median:   median,
		Skewness: calculateSkewness(data, mean, stdDev),
		Kurtosis: calculateKurtosis(data, mean, stdDev),
	}, nil
}

// ksStatistic is sup |F_n(x) - F(x)| over the sorted sample
func ksStatistic(data []float64, cdf func(float64) float64) float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	d := 0.0
	for i, x := range sorted {
		f := cdf(x)
		d = math.Max(d, math.Max(float64(i+1)/n-f, f-float64(i)/n))
	}
	return d
}

// ksPValue uses the asymptotic Kolmogorov distribution with Stephens'
// small-sample correction.
func ksPValue(d float64, n int) float64 {
	if n == 0 {
		return 1
	}
	sqrtN := math.Sqrt(float64(n))
	x := (sqrtN + 0.12 + 0.11/sqrtN) * d
	if x < 1e-3 {
		return 1
	}

	sum := 0.0
	for k := 1; k <= 100; k++ {
		term := math.Exp(-2 * float64(k*k) * x * x)
		if k%2 == 0 {
			sum -= term
		} else {
			sum += term
		}
		if term < 1e-12 {
			break
		}
	}
	return math.Min(1, math.Max(0, 2*sum))
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	return sumCubedDeviations / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateKurtosis computes sample kurtosis (3 for a normal sample)
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}

	g2 := sumFourthDeviations/n - 3
	return ((n+1)*g2+6)*(n-1)/((n-2)*(n-3)) + 3
}
