package metrics

import (
	"math"
	"sort"

	"github.com/talhanai/ml-perf-metric/pkg/stats"
)

// Positive is the label treated as the positive class.
const Positive = 1

// Round turns probabilities into hard 0/1 predictions by rounding half to
// even, so exactly 0.5 becomes 0. Every rounded-prediction metric uses it.
func Round(proba []float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		out[i] = int(math.RoundToEven(p))
	}
	return out
}

// Confusion holds the confusion counts for one class treated as positive.
type Confusion struct {
	TP, FP, TN, FN int
}

// NewConfusion counts outcomes of yPred against yTrue with pos as the
// positive class.
func NewConfusion(yTrue, yPred []int, pos int) Confusion {
	var c Confusion
	for i := range yTrue {
		switch {
		case yPred[i] == pos && yTrue[i] == pos:
			c.TP++
		case yPred[i] == pos:
			c.FP++
		case yTrue[i] == pos:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

// Precision is TP/(TP+FP), or 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }

// Recall is TP/(TP+FN), or 0 when there are no positives.
func (c Confusion) Recall() float64 { return ratio(c.TP, c.TP+c.FN) }

// F1 is the harmonic mean of precision and recall, or 0 when both are 0.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Average selects how per-class F1 scores are combined.
type Average int

const (
	// Binary reports the score of the positive class only.
	Binary Average = iota
	// Micro pools the counts of every class before scoring.
	Micro
	// Macro takes the unweighted mean of the per-class scores.
	Macro
)

// String returns the string representation.
func (a Average) String() string {
	switch a {
	case Binary:
		return "binary"
	case Micro:
		return "micro"
	case Macro:
		return "macro"
	default:
		return "unknown"
	}
}

// F1 scores hard predictions. Micro and Macro consider every label seen in
// either yTrue or yPred.
func F1(yTrue, yPred []int, avg Average) float64 {
	switch avg {
	case Micro:
		var pooled Confusion
		for _, l := range labels(yTrue, yPred) {
			c := NewConfusion(yTrue, yPred, l)
			pooled.TP += c.TP
			pooled.FP += c.FP
			pooled.FN += c.FN
		}
		return pooled.F1()
	case Macro:
		ls := labels(yTrue, yPred)
		if len(ls) == 0 {
			return 0
		}
		sum := 0.0
		for _, l := range ls {
			sum += NewConfusion(yTrue, yPred, l).F1()
		}
		return sum / float64(len(ls))
	default:
		return NewConfusion(yTrue, yPred, Positive).F1()
	}
}

// labels returns the sorted union of labels in a and b.
func labels(a, b []int) []int {
	seen := make(map[int]struct{})
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		seen[v] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Precision of the positive class.
func Precision(yTrue, yPred []int) float64 {
	return NewConfusion(yTrue, yPred, Positive).Precision()
}

// Recall of the positive class.
func Recall(yTrue, yPred []int) float64 {
	return NewConfusion(yTrue, yPred, Positive).Recall()
}

// AccuracyCount returns the number of correct predictions.
func AccuracyCount(yTrue, yPred []int) int {
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return c
}

// Accuracy returns the fraction of correct predictions.
func Accuracy(yTrue, yPred []int) float64 {
	return ratio(AccuracyCount(yTrue, yPred), len(yTrue))
}

// Brier is the mean squared difference between predicted probabilities and
// the 0/1 outcome of the positive class.
func Brier(yTrue []int, proba []float64) float64 {
	outcome := make([]float64, len(yTrue))
	for i, y := range yTrue {
		if y == Positive {
			outcome[i] = 1
		}
	}
	return stats.MeanSquaredError(outcome, proba)
}
