package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	require.Equal(t, 0.75, Accuracy([]float64{0, 1, 1, 0}, []float64{0, 1, 0, 0}))
	require.Zero(t, Accuracy(nil, nil))
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1, 2}
	yPred := []float64{0, 1, 1, 1, 0}
	labels, cm := ConfusionMatrix(yTrue, yPred)

	require.Equal(t, []float64{0, 1, 2}, labels)
	require.Equal(t, [][]int{
		{1, 1, 0},
		{0, 2, 0},
		{1, 0, 0},
	}, cm)
}

func TestClassificationReport(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1}
	yPred := []float64{0, 1, 1, 1}
	report := ClassificationReport(yTrue, yPred)

	c0 := report["0"]
	require.Equal(t, 1.0, c0.Precision)
	require.Equal(t, 0.5, c0.Recall)
	require.InDelta(t, 2.0/3.0, c0.F1, 1e-12)
	require.Equal(t, 2, c0.Support)

	c1 := report["1"]
	require.InDelta(t, 2.0/3.0, c1.Precision, 1e-12)
	require.Equal(t, 1.0, c1.Recall)
}

func TestClassificationReport_UndefinedRatiosAreZero(t *testing.T) {
	// Class 0 is never predicted and class 2 never occurs as a true label,
	// so precision and recall respectively lose their denominators.
	report := ClassificationReport([]float64{0, 0}, []float64{2, 2})
	require.Zero(t, report["0"].Precision)
	require.Zero(t, report["0"].F1)
	require.Zero(t, report["2"].Recall)
	require.Zero(t, report["2"].Support)
}

func TestWeightedPRF1_PerfectPrediction(t *testing.T) {
	y := []float64{0, 1, 1, 2}
	prec, rec, f1 := WeightedPRF1(y, y)
	require.Equal(t, 1.0, prec)
	require.Equal(t, 1.0, rec)
	require.Equal(t, 1.0, f1)
}

func TestRegressionMetrics(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{1, 2, 4}

	require.InDelta(t, 1.0/3.0, MSE(yTrue, yPred), 1e-12)
	require.InDelta(t, 1.0/3.0, MAE(yTrue, yPred), 1e-12)
	require.InDelta(t, math.Sqrt(1.0/3.0), RMSE(yTrue, yPred), 1e-12)
	require.InDelta(t, 0.5, R2(yTrue, yPred), 1e-12)
}

func TestR2_ConstantTarget(t *testing.T) {
	require.Zero(t, R2([]float64{5, 5, 5}, []float64{5, 5, 5}))
}
