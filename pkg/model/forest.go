package model

import (
	"math/rand"
	"sync"

	"github.com/pkg/errors"
)

// RandomForest bags decision trees for either task: majority vote for
// classification, mean prediction for regression.
type RandomForest struct {
	Task            ProblemType
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 => all features
	Bootstrap       bool
	RandomState     int64

	Trees       []*DecisionTree
	ClassValues []float64
	NFeatures   int
}

// ForestOption is functional configuration for RandomForest.
type ForestOption func(*RandomForest)

func WithNEstimators(n int) ForestOption { return func(f *RandomForest) { f.NEstimators = n } }
func WithForestMaxDepth(d int) ForestOption {
	return func(f *RandomForest) { f.MaxDepth = d }
}
func WithForestMinSamplesSplit(n int) ForestOption {
	return func(f *RandomForest) { f.MinSamplesSplit = n }
}
func WithForestMaxFeatures(k int) ForestOption {
	return func(f *RandomForest) { f.MaxFeatures = k }
}
func WithForestRandomState(seed int64) ForestOption {
	return func(f *RandomForest) { f.RandomState = seed }
}

// NewRandomForest returns a forest for the given task with sensible defaults.
func NewRandomForest(task ProblemType, opts ...ForestOption) *RandomForest {
	f := &RandomForest{
		Task:            task,
		NEstimators:     100,
		MinSamplesSplit: 2,
		Bootstrap:       true,
		RandomState:     1,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains NEstimators trees concurrently, each with its own seed and
// bootstrap sample.
func (f *RandomForest) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return errors.Wrap(ErrModel, "randomforest: empty X")
	}
	if len(y) != n {
		return errors.Wrap(ErrModel, "randomforest: X and y length mismatch")
	}
	if f.NEstimators <= 0 {
		return errors.Wrapf(ErrModel, "randomforest: n_estimators %d must be positive", f.NEstimators)
	}
	f.NFeatures = len(X[0])
	if f.Task == Classification {
		f.ClassValues = sortedUnique(y)
	}

	f.Trees = make([]*DecisionTree, f.NEstimators)
	var wg sync.WaitGroup
	errCh := make(chan error, f.NEstimators)

	for i := 0; i < f.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			seed := f.RandomState + int64(idx)
			treeRand := rand.New(rand.NewSource(seed))

			bx, by := X, y
			if f.Bootstrap {
				bx = make([][]float64, n)
				by = make([]float64, n)
				for j := 0; j < n; j++ {
					s := treeRand.Intn(n)
					bx[j] = X[s]
					by[j] = y[s]
				}
			}
			tree := NewDecisionTree(f.Task,
				WithMaxDepth(f.MaxDepth),
				WithMinSamplesSplit(f.MinSamplesSplit),
				WithMaxFeatures(f.MaxFeatures),
				WithRandomState(seed),
			)
			if err := tree.Fit(bx, by); err != nil {
				errCh <- err
				return
			}
			f.Trees[idx] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// Predict aggregates the trees: majority vote or mean.
func (f *RandomForest) Predict(X [][]float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, errors.Wrap(ErrModel, "randomforest: not fitted")
	}
	if f.Task == Regression {
		out := make([]float64, len(X))
		for _, tree := range f.Trees {
			preds, err := tree.Predict(X)
			if err != nil {
				return nil, err
			}
			for i, p := range preds {
				out[i] += p
			}
		}
		for i := range out {
			out[i] /= float64(len(f.Trees))
		}
		return out, nil
	}

	probas, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range probas {
		best := 0
		for c := 1; c < len(row); c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		out[i] = f.ClassValues[best]
	}
	return out, nil
}

// PredictProba averages the per-tree class distributions.
func (f *RandomForest) PredictProba(X [][]float64) ([][]float64, error) {
	if f.Task != Classification {
		return nil, errors.Wrap(ErrModel, "randomforest: probabilities only for classification")
	}
	if len(f.Trees) == 0 {
		return nil, errors.Wrap(ErrModel, "randomforest: not fitted")
	}
	index := make(map[float64]int, len(f.ClassValues))
	for i, c := range f.ClassValues {
		index[c] = i
	}
	out := make([][]float64, len(X))
	for i := range out {
		out[i] = make([]float64, len(f.ClassValues))
	}
	for _, tree := range f.Trees {
		probas, err := tree.PredictProba(X)
		if err != nil {
			return nil, err
		}
		for i, row := range probas {
			// Tree class sets can be a subset of the forest's under
			// bootstrap sampling; realign by label.
			for c, p := range row {
				out[i][index[tree.ClassValues[c]]] += p
			}
		}
	}
	for i := range out {
		for c := range out[i] {
			out[i][c] /= float64(len(f.Trees))
		}
	}
	return out, nil
}

// Classes returns the sorted class labels the forest was fit on.
func (f *RandomForest) Classes() []float64 { return f.ClassValues }

// FeatureImportances averages the per-tree importances.
func (f *RandomForest) FeatureImportances() []float64 {
	if len(f.Trees) == 0 {
		return nil
	}
	out := make([]float64, f.NFeatures)
	for _, tree := range f.Trees {
		for j, v := range tree.Importance {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(f.Trees))
	}
	return out
}
