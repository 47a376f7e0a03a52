package metrics

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talhanai/ml-perf-metric/pkg/loader"
	"github.com/talhanai/ml-perf-metric/pkg/validate"
)

// EvaluateFolds splits the samples into k stratified folds using seed and
// evaluates each fold concurrently. Results are returned in fold order. The
// first failing fold cancels the rest.
func (a *Aggregator) EvaluateFolds(ctx context.Context, yPred []float64, yTrue []int, k int, seed int64) ([]*Result, error) {
	if err := validate.Pair(yTrue, yPred); err != nil {
		return nil, err
	}
	if err := validate.BinaryLabels(yTrue); err != nil {
		return nil, err
	}
	folds, err := loader.StratifiedKFold(yTrue, k, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(folds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, indices := range folds {
		i, indices := i, indices
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, y := loader.Subset(yPred, yTrue, indices)
			res, err := a.Evaluate(p, y)
			if err != nil {
				return fmt.Errorf("fold %d: %w", i, err)
			}
			results[i] = res
			a.logger.Debug("evaluated fold", zap.Int("fold", i), zap.Int("samples", len(indices)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
