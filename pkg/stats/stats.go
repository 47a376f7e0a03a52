package stats

import "math"

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		} else if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Sum returns the sum of all elements in the slice.
func Sum(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s
}

// NanSum returns the sum of the finite elements of x together with the
// number of NaN or infinite elements it skipped.
func NanSum(x []float64) (sum float64, skipped int) {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			skipped++
			continue
		}
		sum += v
	}
	return sum, skipped
}

// MeanSquaredError is the mean of (yPred[i]-yTrue[i])^2. Both slices must
// have the same length.
func MeanSquaredError(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	if n == 0 {
		return 0
	}
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}
