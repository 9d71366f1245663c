package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	require.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	require.Zero(t, Mean(nil))
}

func TestVarianceAndStd(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	require.InDelta(t, 4, Variance(x), 1e-12)
	require.InDelta(t, 2, Std(x), 1e-12)

	require.Zero(t, Variance([]float64{3, 3, 3}))
	require.Zero(t, Variance(nil))
}
