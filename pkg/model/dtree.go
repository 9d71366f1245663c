package model

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// DecisionTree is a CART-style tree serving both tasks: gini impurity for
// classification, variance reduction for regression.
type DecisionTree struct {
	Task            ProblemType
	MaxDepth        int // 0 => no limit
	MinSamplesSplit int
	MaxFeatures     int // 0 => all features
	RandomState     int64

	Root        *Node
	NFeatures   int
	ClassValues []float64 // sorted class labels (classification only)
	Importance  []float64
}

// Node holds one tree node. Fields are exported for gob persistence.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64 // x[Feature] <= Threshold goes left
	Left      *Node
	Right     *Node
	Value     float64   // predicted value (majority class or mean)
	Probas    []float64 // class distribution, aligned with ClassValues
	N         int
}

// TreeOption is functional configuration for DecisionTree.
type TreeOption func(*DecisionTree)

func WithMaxDepth(d int) TreeOption        { return func(t *DecisionTree) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption { return func(t *DecisionTree) { t.MinSamplesSplit = n } }
func WithMaxFeatures(k int) TreeOption     { return func(t *DecisionTree) { t.MaxFeatures = k } }
func WithRandomState(seed int64) TreeOption {
	return func(t *DecisionTree) { t.RandomState = seed }
}

// NewDecisionTree returns a tree for the given task with sensible defaults.
func NewDecisionTree(task ProblemType, opts ...TreeOption) *DecisionTree {
	t := &DecisionTree{
		Task:            task,
		MinSamplesSplit: 2,
		RandomState:     1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit grows the tree on X (n x p) and y (n labels or values).
func (t *DecisionTree) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return errors.Wrap(ErrModel, "dtree: empty X")
	}
	if len(y) != n {
		return errors.Wrap(ErrModel, "dtree: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.Wrap(ErrModel, "dtree: ragged feature matrix")
		}
	}
	t.NFeatures = p
	t.Importance = make([]float64, p)

	var labels []int
	if t.Task == Classification {
		t.ClassValues = sortedUnique(y)
		index := make(map[float64]int, len(t.ClassValues))
		for i, c := range t.ClassValues {
			index[c] = i
		}
		labels = make([]int, n)
		for i, v := range y {
			labels[i] = index[v]
		}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(t.RandomState))
	t.Root = t.build(X, y, labels, idx, 0, rng)

	total := 0.0
	for _, v := range t.Importance {
		total += v
	}
	if total > 0 {
		for i := range t.Importance {
			t.Importance[i] /= total
		}
	}
	return nil
}

// Predict returns one prediction per row of X.
func (t *DecisionTree) Predict(X [][]float64) ([]float64, error) {
	if t.Root == nil {
		return nil, errors.Wrap(ErrModel, "dtree: not fitted")
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != t.NFeatures {
			return nil, errors.Wrapf(ErrModel, "dtree: row has %d features, fitted on %d", len(row), t.NFeatures)
		}
		out[i] = t.leaf(row).Value
	}
	return out, nil
}

// PredictProba returns per-class probability rows aligned with Classes.
func (t *DecisionTree) PredictProba(X [][]float64) ([][]float64, error) {
	if t.Task != Classification {
		return nil, errors.Wrap(ErrModel, "dtree: probabilities only for classification")
	}
	if t.Root == nil {
		return nil, errors.Wrap(ErrModel, "dtree: not fitted")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		probas := t.leaf(row).Probas
		cp := make([]float64, len(probas))
		copy(cp, probas)
		out[i] = cp
	}
	return out, nil
}

// Classes returns the sorted class labels the tree was fit on.
func (t *DecisionTree) Classes() []float64 { return t.ClassValues }

// FeatureImportances returns normalized impurity-decrease weights.
func (t *DecisionTree) FeatureImportances() []float64 { return t.Importance }

func (t *DecisionTree) leaf(row []float64) *Node {
	node := t.Root
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

func (t *DecisionTree) build(X [][]float64, y []float64, labels []int, idx []int, depth int, rng *rand.Rand) *Node {
	node := &Node{N: len(idx)}
	t.fillLeafValue(node, y, labels, idx)

	if len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) || t.pure(y, labels, idx) {
		node.Leaf = true
		return node
	}

	feature, threshold, gain, left, right := t.bestSplit(X, y, labels, idx, rng)
	if feature < 0 || gain <= 0 || len(left) == 0 || len(right) == 0 {
		node.Leaf = true
		return node
	}

	t.Importance[feature] += float64(len(idx)) * gain
	node.Feature = feature
	node.Threshold = threshold
	node.Left = t.build(X, y, labels, left, depth+1, rng)
	node.Right = t.build(X, y, labels, right, depth+1, rng)
	return node
}

func (t *DecisionTree) fillLeafValue(node *Node, y []float64, labels []int, idx []int) {
	if t.Task == Regression {
		sum := 0.0
		for _, i := range idx {
			sum += y[i]
		}
		node.Value = sum / float64(len(idx))
		return
	}
	counts := make([]int, len(t.ClassValues))
	for _, i := range idx {
		counts[labels[i]]++
	}
	node.Probas = make([]float64, len(counts))
	best := 0
	for c, cnt := range counts {
		node.Probas[c] = float64(cnt) / float64(len(idx))
		if cnt > counts[best] {
			best = c
		}
	}
	node.Value = t.ClassValues[best]
}

func (t *DecisionTree) pure(y []float64, labels []int, idx []int) bool {
	if t.Task == Classification {
		first := labels[idx[0]]
		for _, i := range idx[1:] {
			if labels[i] != first {
				return false
			}
		}
		return true
	}
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

// bestSplit scans candidate features for the threshold with the highest
// impurity decrease, sampling MaxFeatures features when configured.
func (t *DecisionTree) bestSplit(X [][]float64, y []float64, labels []int, idx []int, rng *rand.Rand) (feature int, threshold, gain float64, left, right []int) {
	feature = -1
	features := make([]int, t.NFeatures)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < t.NFeatures {
		rng.Shuffle(len(features), func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.MaxFeatures]
	}

	parent := t.impurity(y, labels, idx)
	type pair struct {
		v float64
		i int
	}
	pairs := make([]pair, len(idx))

	for _, f := range features {
		for k, i := range idx {
			pairs[k] = pair{X[i][f], i}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		for cut := 1; cut < len(pairs); cut++ {
			if pairs[cut].v == pairs[cut-1].v {
				continue
			}
			lIdx := make([]int, cut)
			rIdx := make([]int, len(pairs)-cut)
			for k := 0; k < cut; k++ {
				lIdx[k] = pairs[k].i
			}
			for k := cut; k < len(pairs); k++ {
				rIdx[k-cut] = pairs[k].i
			}
			nl, nr := float64(cut), float64(len(pairs)-cut)
			g := parent - (nl*t.impurity(y, labels, lIdx)+nr*t.impurity(y, labels, rIdx))/float64(len(pairs))
			if g > gain {
				feature = f
				threshold = (pairs[cut].v + pairs[cut-1].v) / 2
				gain = g
				left, right = lIdx, rIdx
			}
		}
	}
	return feature, threshold, gain, left, right
}

func (t *DecisionTree) impurity(y []float64, labels []int, idx []int) float64 {
	if t.Task == Classification {
		counts := make([]int, len(t.ClassValues))
		for _, i := range idx {
			counts[labels[i]]++
		}
		gini := 1.0
		n := float64(len(idx))
		for _, c := range counts {
			p := float64(c) / n
			gini -= p * p
		}
		return gini
	}
	n := float64(len(idx))
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	mean := sum / n
	return (sumSq / n) - mean*mean
}

func sortedUnique(y []float64) []float64 {
	seen := make(map[float64]struct{}, len(y))
	for _, v := range y {
		seen[v] = struct{}{}
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
