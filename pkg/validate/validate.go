// Package validate checks prediction and label inputs once at entry so that
// downstream computations never see mismatched, empty or non-finite data.
package validate

import (
	"errors"
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrInvalidInput indicates inputs that can never produce a result:
	// mismatched lengths, empty sequences, non-binary labels or a bad
	// parameter.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateInput indicates well-formed inputs for which a statistic
	// is undefined, such as identical predictions or a missing class.
	ErrDegenerateInput = errors.New("degenerate input")
)

// MinBins is the smallest bin count with positive chi-square degrees of
// freedom (bins - 2).
const MinBins = 3

// maxReported caps how many offending indices are listed per problem.
const maxReported = 5

// Pair checks that yTrue and yPred are non-empty, equally long, and that
// every prediction is a finite probability in [0, 1]. All problems found are
// returned together.
func Pair(yTrue []int, yPred []float64) error {
	var result *multierror.Error
	if len(yTrue) == 0 || len(yPred) == 0 {
		result = multierror.Append(result, fmt.Errorf("%w: empty sequence (labels=%d, predictions=%d)",
			ErrInvalidInput, len(yTrue), len(yPred)))
	}
	if len(yTrue) != len(yPred) {
		result = multierror.Append(result, fmt.Errorf("%w: length mismatch (labels=%d, predictions=%d)",
			ErrInvalidInput, len(yTrue), len(yPred)))
	}
	reported := 0
	for i, p := range yPred {
		if math.IsNaN(p) || p < 0 || p > 1 {
			if reported < maxReported {
				result = multierror.Append(result, fmt.Errorf("%w: prediction %d is %v, want a probability in [0, 1]",
					ErrInvalidInput, i, p))
			}
			reported++
		}
	}
	if reported > maxReported {
		result = multierror.Append(result, fmt.Errorf("%w: %d more predictions out of range",
			ErrInvalidInput, reported-maxReported))
	}
	return result.ErrorOrNil()
}

// BinaryLabels checks that every label is 0 or 1 and that both classes are
// present. A missing class is reported as ErrDegenerateInput.
func BinaryLabels(yTrue []int) error {
	var result *multierror.Error
	var pos, neg, reported int
	for i, y := range yTrue {
		switch y {
		case 1:
			pos++
		case 0:
			neg++
		default:
			if reported < maxReported {
				result = multierror.Append(result, fmt.Errorf("%w: label %d is %d, want 0 or 1",
					ErrInvalidInput, i, y))
			}
			reported++
		}
	}
	if reported > maxReported {
		result = multierror.Append(result, fmt.Errorf("%w: %d more non-binary labels",
			ErrInvalidInput, reported-maxReported))
	}
	if reported == 0 && len(yTrue) > 0 && (pos == 0 || neg == 0) {
		result = multierror.Append(result, fmt.Errorf("%w: only one class present (positives=%d, negatives=%d)",
			ErrDegenerateInput, pos, neg))
	}
	return result.ErrorOrNil()
}

// Bins checks the Hosmer-Lemeshow bin count.
func Bins(n int) error {
	if n < MinBins {
		return fmt.Errorf("%w: %d bins leaves %d degrees of freedom, need at least %d bins",
			ErrInvalidInput, n, n-2, MinBins)
	}
	return nil
}
