// Package stats provides the cumulation reducers used by the benchmark
// query language. Every reducer folds an ordered sequence of float64
// samples into a single scalar.
//
// Degenerate inputs are values, not errors: an empty sequence reduces to 0
// for every function, and a zero sample in the harmonic mean is computed
// naively so the float result (Inf/NaN/0) propagates unchanged.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// Func identifies one cumulation reducer. The zero value is Last, the
// default reducer applied when a metric spec names no cumulation.
type Func int

const (
	Last Func = iota
	Sum
	Mean
	Min
	Max
	Median
	GeoMean
	HarmonicMean
	Variance
	StdDev
)

var funcNames = map[string]Func{
	"sum":           Sum,
	"mean":          Mean,
	"min":           Min,
	"max":           Max,
	"median":        Median,
	"geomean":       GeoMean,
	"harmonic-mean": HarmonicMean,
	"variance":      Variance,
	"stddev":        StdDev,
}

// UnknownFuncError reports a cumulation token that names no reducer.
type UnknownFuncError struct {
	Name string
}

func (e *UnknownFuncError) Error() string {
	return fmt.Sprintf("unknown cumulation function %q", e.Name)
}

// Parse resolves a cumulation token to its reducer.
func Parse(name string) (Func, error) {
	f, ok := funcNames[name]
	if !ok {
		return Last, &UnknownFuncError{Name: name}
	}
	return f, nil
}

// String returns the script-facing token for the reducer.
func (f Func) String() string {
	for name, fn := range funcNames {
		if fn == f {
			return name
		}
	}
	return "last"
}

// Apply folds values into one scalar under the reducer's rules.
func (f Func) Apply(values []float64) float64 {
	n := len(values)
	switch f {
	case Last:
		if n == 0 {
			return 0
		}
		return values[n-1]
	case Sum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	case Mean:
		if n == 0 {
			return 0
		}
		return Sum.Apply(values) / float64(n)
	case Min:
		if n == 0 {
			return 0
		}
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case Max:
		if n == 0 {
			return 0
		}
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	case Median:
		if n == 0 {
			return 0
		}
		sorted := make([]float64, n)
		copy(sorted, values)
		sort.Float64s(sorted)
		// Upper-middle element for even n, never interpolated.
		return sorted[n/2]
	case GeoMean:
		if n == 0 {
			return 0
		}
		product := 1.0
		for _, v := range values {
			product *= v
		}
		return math.Pow(product, 1/float64(n))
	case HarmonicMean:
		if n == 0 {
			return 0
		}
		var reciprocals float64
		for _, v := range values {
			reciprocals += 1 / v
		}
		return float64(n) / reciprocals
	case Variance:
		if n == 0 {
			return 0
		}
		mean := Mean.Apply(values)
		var sq float64
		for _, v := range values {
			d := mean - v
			sq += d * d
		}
		// Population variance, biased.
		return sq / float64(n)
	case StdDev:
		return math.Sqrt(Variance.Apply(values))
	}
	return 0
}
