package engine

import (
	"math"
	"sort"

	"promptlab/domain/core"
	domainStats "promptlab/domain/stats"

	"github.com/montanaflynn/stats"
)

// Mean returns the arithmetic average. Empty samples are a reported
// condition, never a silent zero.
func Mean(sample []float64) (float64, error) {
	if len(sample) == 0 {
		return 0, core.NewInsufficientDataError("mean", 0, 1)
	}
	m, _ := stats.Mean(sample)
	return m, nil
}

// Variance returns the sample variance (n-1 denominator). A sample of
// one has no variance; zero is a valid variance and is never used as
// an "undefined" stand-in.
func Variance(sample []float64) (float64, error) {
	if len(sample) < 2 {
		return 0, core.NewInsufficientDataError("variance", len(sample), 2)
	}
	v, _ := stats.SampleVariance(sample)
	return v, nil
}

// StdDev returns the sample standard deviation.
func StdDev(sample []float64) (float64, error) {
	if len(sample) < 2 {
		return 0, core.NewInsufficientDataError("standard deviation", len(sample), 2)
	}
	sd, _ := stats.StandardDeviationSample(sample)
	return sd, nil
}

// Median returns the middle element, or the mean of the two middle
// elements for even counts.
func Median(sample []float64) (float64, error) {
	if len(sample) == 0 {
		return 0, core.NewInsufficientDataError("median", 0, 1)
	}
	m, _ := stats.Median(sample)
	return m, nil
}

// Mode returns every value at peak frequency, ascending. Ties are
// preserved: when all values are distinct, every value is a mode.
// montanaflynn's Mode drops ties, so the counting is done by hand.
func Mode(sample []float64) ([]float64, error) {
	if len(sample) == 0 {
		return nil, core.NewInsufficientDataError("mode", 0, 1)
	}

	freq := make(map[float64]int, len(sample))
	maxFreq := 0
	for _, v := range sample {
		freq[v]++
		if freq[v] > maxFreq {
			maxFreq = freq[v]
		}
	}

	modes := make([]float64, 0, len(freq))
	for v, c := range freq {
		if c == maxFreq {
			modes = append(modes, v)
		}
	}
	sort.Float64s(modes)
	return modes, nil
}

// Quartiles computes Q1/Q2/Q3 by the (n+1)*p position rule: the
// position is truncated to a rank and clamped to the sample bounds.
// No linear interpolation. Defined only for n >= 4.
func Quartiles(sample []float64) (domainStats.Quartiles, error) {
	if len(sample) < 4 {
		return domainStats.Quartiles{}, core.NewInsufficientDataError("quartiles", len(sample), 4)
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	q1 := valueAtPosition(sorted, 0.25)
	q2 := valueAtPosition(sorted, 0.50)
	q3 := valueAtPosition(sorted, 0.75)

	return domainStats.Quartiles{Q1: q1, Q2: q2, Q3: q3, IQR: q3 - q1}, nil
}

// valueAtPosition picks the element at rank floor((n+1)*p), clamped to
// the valid range. The exact truncation here decides whether the Tukey
// fence flags the right values; do not swap in interpolation.
func valueAtPosition(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)+1)*p) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Outliers reports every value outside the Tukey fence
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR], in input order. Samples too small for
// quartiles have no fence and yield an empty set.
func Outliers(sample []float64) []float64 {
	q, err := Quartiles(sample)
	if err != nil {
		return []float64{}
	}

	lower := q.Q1 - 1.5*q.IQR
	upper := q.Q3 + 1.5*q.IQR

	out := []float64{}
	for _, v := range sample {
		if v < lower || v > upper {
			out = append(out, v)
		}
	}
	return out
}

// DistributionShape classifies skew by comparing mean and median
// against a tenth of the standard deviation.
func DistributionShape(sample []float64) domainStats.Shape {
	if len(sample) <= 2 {
		return domainStats.ShapeInsufficient
	}

	mean, _ := stats.Mean(sample)
	median, _ := stats.Median(sample)
	stdDev, _ := stats.StandardDeviationSample(sample)

	if math.Abs(mean-median) < 0.1*stdDev {
		return domainStats.ShapeSymmetric
	}
	if mean > median {
		return domainStats.ShapeRightSkewed
	}
	return domainStats.ShapeLeftSkewed
}

// Describe assembles the full descriptive report. It needs n >= 2 so
// the variance fields are defined; quartiles and outliers degrade to
// nil/empty below n = 4, and shape reports insufficient_data at n <= 2.
func (e *Engine) Describe(sample []float64) (domainStats.DescriptiveReport, error) {
	n := len(sample)
	if n < 2 {
		return domainStats.DescriptiveReport{}, core.NewInsufficientDataError("descriptive analysis", n, 2)
	}

	mean, _ := stats.Mean(sample)
	median, _ := stats.Median(sample)
	variance, _ := stats.SampleVariance(sample)
	stdDev, _ := stats.StandardDeviationSample(sample)
	minVal, _ := stats.Min(sample)
	maxVal, _ := stats.Max(sample)
	mode, _ := Mode(sample)

	report := domainStats.DescriptiveReport{
		Count:    n,
		Mean:     mean,
		Median:   median,
		Mode:     mode,
		StdDev:   stdDev,
		Variance: variance,
		Min:      minVal,
		Max:      maxVal,
		Range:    maxVal - minVal,
		Outliers: []float64{},
		Shape:    DistributionShape(sample),
	}

	if q, err := Quartiles(sample); err == nil {
		report.Quartiles = &q
		report.Outliers = Outliers(sample)
	}

	return report, nil
}
