package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecisionTree_AxisAlignedSplit(t *testing.T) {
	// One threshold on the first feature separates the classes exactly.
	X := [][]float64{{1, 9}, {2, 1}, {3, 7}, {7, 2}, {8, 8}, {9, 3}}
	y := []float64{0, 0, 0, 1, 1, 1}

	tree := NewDecisionTree(Classification)
	require.NoError(t, tree.Fit(X, y))

	preds, err := tree.Predict(X)
	require.NoError(t, err)
	require.Equal(t, y, preds)
	require.Equal(t, []float64{0, 1}, tree.Classes())

	// All impurity decrease comes from the first feature.
	imp := tree.FeatureImportances()
	require.Equal(t, 1.0, imp[0])
	require.Zero(t, imp[1])

	probas, err := tree.PredictProba([][]float64{{1.5, 5}})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0}, probas[0])
}

func TestDecisionTree_MaxDepthStump(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 2, 3, 4}

	tree := NewDecisionTree(Regression, WithMaxDepth(1))
	require.NoError(t, tree.Fit(X, y))
	require.False(t, tree.Root.Leaf)
	require.True(t, tree.Root.Left.Leaf)
	require.True(t, tree.Root.Right.Leaf)
}

func TestDecisionTree_RegressionMeansLeaves(t *testing.T) {
	X := [][]float64{{0}, {0.1}, {10}, {10.1}}
	y := []float64{1, 3, 20, 22}

	tree := NewDecisionTree(Regression, WithMaxDepth(1))
	require.NoError(t, tree.Fit(X, y))

	preds, err := tree.Predict([][]float64{{0.05}, {10.05}})
	require.NoError(t, err)
	require.Equal(t, []float64{2, 21}, preds)
}

func TestDecisionTree_ConstantTargetIsLeaf(t *testing.T) {
	tree := NewDecisionTree(Classification)
	require.NoError(t, tree.Fit([][]float64{{1}, {2}, {3}}, []float64{7, 7, 7}))
	require.True(t, tree.Root.Leaf)

	preds, err := tree.Predict([][]float64{{99}})
	require.NoError(t, err)
	require.Equal(t, []float64{7}, preds)
}

func TestDecisionTree_Validation(t *testing.T) {
	tree := NewDecisionTree(Classification)
	require.ErrorIs(t, tree.Fit(nil, nil), ErrModel)
	require.ErrorIs(t, tree.Fit([][]float64{{1}, {1, 2}}, []float64{0, 1}), ErrModel)

	_, err := NewDecisionTree(Classification).Predict([][]float64{{1}})
	require.ErrorIs(t, err, ErrModel)

	_, err = NewDecisionTree(Regression).PredictProba([][]float64{{1}})
	require.ErrorIs(t, err, ErrModel)
}
