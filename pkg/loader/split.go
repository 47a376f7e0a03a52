package loader

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/talhanai/ml-perf-metric/pkg/validate"
)

// StratifiedKFold deals sample indices into k folds, one class at a time, so
// each fold receives a near-equal share of every class. Each class is
// shuffled with rng first; a nil rng deals in index order. Indices within a
// fold are sorted.
func StratifiedKFold(yTrue []int, k int, rng *rand.Rand) ([][]int, error) {
	if k < 2 || k > len(yTrue) {
		return nil, fmt.Errorf("%w: cannot split %d samples into %d folds", validate.ErrInvalidInput, len(yTrue), k)
	}

	byClass := make(map[int][]int)
	for i, y := range yTrue {
		byClass[y] = append(byClass[y], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	folds := make([][]int, k)
	next := 0
	for _, c := range classes {
		indices := byClass[c]
		if rng != nil {
			rng.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
		}
		for _, idx := range indices {
			folds[next%k] = append(folds[next%k], idx)
			next++
		}
	}
	for _, f := range folds {
		sort.Ints(f)
	}
	return folds, nil
}

// Subset gathers the predictions and labels at the given indices.
func Subset(yPred []float64, yTrue []int, indices []int) ([]float64, []int) {
	p := make([]float64, len(indices))
	y := make([]int, len(indices))
	for i, idx := range indices {
		p[i] = yPred[idx]
		y[i] = yTrue[idx]
	}
	return p, y
}
