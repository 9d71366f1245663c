package dataprep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeClasses(counts map[float64]int) ([][]float64, []float64) {
	var X [][]float64
	var y []float64
	i := 0.0
	for label, n := range counts {
		for j := 0; j < n; j++ {
			X = append(X, []float64{i})
			y = append(y, label)
			i++
		}
	}
	return X, y
}

func countLabels(y []float64) map[float64]int {
	out := make(map[float64]int)
	for _, v := range y {
		out[v]++
	}
	return out
}

func TestStratifiedSplit_Shapes(t *testing.T) {
	X, y := makeClasses(map[float64]int{0: 60, 1: 40})
	XTrain, XTest, yTrain, yTest, err := StratifiedSplit(X, y, 0.2, 42)
	require.NoError(t, err)
	require.Len(t, XTest, 20)
	require.Len(t, XTrain, 80)
	require.Len(t, yTrain, 80)
	require.Len(t, yTest, 20)

	// Class proportions carry over to the test set.
	require.Equal(t, map[float64]int{0: 12, 1: 8}, countLabels(yTest))
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	X, y := makeClasses(map[float64]int{0: 30, 1: 30, 2: 40})
	_, XTest1, _, yTest1, err := StratifiedSplit(X, y, 0.25, 7)
	require.NoError(t, err)
	_, XTest2, _, yTest2, err := StratifiedSplit(X, y, 0.25, 7)
	require.NoError(t, err)
	require.Equal(t, XTest1, XTest2)
	require.Equal(t, yTest1, yTest2)

	_, XTest3, _, _, err := StratifiedSplit(X, y, 0.25, 8)
	require.NoError(t, err)
	require.NotEqual(t, XTest1, XTest3)
}

func TestStratifiedSplit_TestCountRoundsUp(t *testing.T) {
	X, y := makeClasses(map[float64]int{0: 5, 1: 5})
	_, XTest, _, _, err := StratifiedSplit(X, y, 0.25, 1)
	require.NoError(t, err)
	// ceil(0.25 * 10) = 3
	require.Len(t, XTest, 3)
}

func TestStratifiedSplit_Errors(t *testing.T) {
	tests := []struct {
		name     string
		counts   map[float64]int
		testSize float64
	}{
		{"singleton class", map[float64]int{0: 10, 1: 1}, 0.2},
		{"test size zero", map[float64]int{0: 10, 1: 10}, 0},
		{"test size one", map[float64]int{0: 10, 1: 10}, 1},
		{"too many classes for test set", map[float64]int{0: 50, 1: 2, 2: 2, 3: 2, 4: 2, 5: 2}, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X, y := makeClasses(tt.counts)
			_, _, _, _, err := StratifiedSplit(X, y, tt.testSize, 42)
			require.ErrorIs(t, err, ErrSplit)
		})
	}
}

func TestStratifiedSplit_EmptyInput(t *testing.T) {
	_, _, _, _, err := StratifiedSplit(nil, nil, 0.2, 42)
	require.ErrorIs(t, err, ErrSplit)
}
