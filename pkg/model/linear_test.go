package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinearRegression_RecoverLine(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	X := make([][]float64, 200)
	y := make([]float64, 200)
	for i := range X {
		v := rng.NormFloat64()
		X[i] = []float64{v}
		y[i] = 2*v + 1
	}

	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	require.InDelta(t, 2, m.W[0], 0.05)
	require.InDelta(t, 1, m.B, 0.05)

	preds, err := m.Predict([][]float64{{0}, {1}})
	require.NoError(t, err)
	require.InDelta(t, 1, preds[0], 0.1)
	require.InDelta(t, 3, preds[1], 0.1)
}

func TestLinearRegression_Validation(t *testing.T) {
	m := NewLinearRegression()
	require.ErrorIs(t, m.Fit(nil, nil), ErrModel)
	require.ErrorIs(t, m.Fit([][]float64{{1}}, []float64{1, 2}), ErrModel)

	_, err := NewLinearRegression().Predict([][]float64{{1}})
	require.ErrorIs(t, err, ErrModel)

	require.NoError(t, m.Fit([][]float64{{1}, {2}}, []float64{1, 2}))
	_, err = m.Predict([][]float64{{1, 2}})
	require.ErrorIs(t, err, ErrModel)
}

func TestLogisticRegression_Binary(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	X := make([][]float64, 200)
	y := make([]float64, 200)
	for i := range X {
		v := rng.NormFloat64()
		if i%2 == 0 {
			v += 3
			y[i] = 5 // arbitrary labels, not 0/1
		} else {
			v -= 3
			y[i] = 2
		}
		X[i] = []float64{v}
	}

	m := NewLogisticRegression()
	require.NoError(t, m.Fit(X, y))
	require.Equal(t, []float64{2, 5}, m.Classes())

	preds, err := m.Predict(X)
	require.NoError(t, err)
	require.Greater(t, Accuracy(y, preds), 0.95)

	probas, err := m.PredictProba([][]float64{{4}})
	require.NoError(t, err)
	require.InDelta(t, 1, probas[0][0]+probas[0][1], 1e-9)
	require.Greater(t, probas[0][1], 0.5)
}

func TestLogisticRegression_RejectsMulticlass(t *testing.T) {
	m := NewLogisticRegression()
	err := m.Fit([][]float64{{1}, {2}, {3}}, []float64{0, 1, 2})
	require.ErrorIs(t, err, ErrModel)
}
