package dataprep

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// StratifiedSplit partitions X, y into train and test sets, preserving the
// class distribution of y. The split is a pure function of testSize and
// seed: the same inputs always produce the same partition.
//
// Stratification is infeasible when any class has fewer than two members or
// when the test set cannot hold one row per class.
func StratifiedSplit(X [][]float64, y []float64, testSize float64, seed int64) (XTrain, XTest [][]float64, yTrain, yTest []float64, err error) {
	n := len(y)
	if n == 0 || len(X) != n {
		return nil, nil, nil, nil, errors.Wrapf(ErrSplit, "have %d rows and %d labels", len(X), n)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.Wrapf(ErrSplit, "test_size %g not in (0, 1)", testSize)
	}

	byClass := make(map[float64][]int)
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}
	classes := make([]float64, 0, len(byClass))
	for v := range byClass {
		classes = append(classes, v)
	}
	sort.Float64s(classes)

	for _, c := range classes {
		if len(byClass[c]) < 2 {
			return nil, nil, nil, nil, errors.Wrapf(ErrSplit, "class %g has only %d member", c, len(byClass[c]))
		}
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < len(classes) {
		return nil, nil, nil, nil, errors.Wrapf(ErrSplit, "test set of %d rows cannot cover %d classes", nTest, len(classes))
	}

	// Per-class test counts: floor of the proportional share, with the
	// remainder handed out by largest fractional part.
	type alloc struct {
		class float64
		base  int
		frac  float64
	}
	allocs := make([]alloc, len(classes))
	total := 0
	for i, c := range classes {
		share := float64(nTest) * float64(len(byClass[c])) / float64(n)
		base := int(math.Floor(share))
		allocs[i] = alloc{class: c, base: base, frac: share - float64(base)}
		total += base
	}
	order := make([]int, len(allocs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return allocs[order[a]].frac > allocs[order[b]].frac })
	for i := 0; total < nTest; i++ {
		allocs[order[i%len(order)]].base++
		total++
	}

	rng := rand.New(rand.NewSource(seed))
	for _, a := range allocs {
		idx := byClass[a.class]
		perm := rng.Perm(len(idx))
		k := a.base
		if k > len(idx) {
			k = len(idx)
		}
		for pos, p := range perm {
			i := idx[p]
			if pos < k {
				XTest = append(XTest, X[i])
				yTest = append(yTest, y[i])
			} else {
				XTrain = append(XTrain, X[i])
				yTrain = append(yTrain, y[i])
			}
		}
	}
	return XTrain, XTest, yTrain, yTest, nil
}
