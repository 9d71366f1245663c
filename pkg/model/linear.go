package model

import (
	"github.com/pkg/errors"
)

// LinearRegression fits weights by full-batch gradient descent. Designed for
// standardized features, where the default learning rate converges quickly.
type LinearRegression struct {
	Lr     float64
	Epochs int

	W []float64
	B float64
}

// NewLinearRegression returns a regressor with default learning settings.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{Lr: 0.05, Epochs: 500}
}

// Fit minimizes mean squared error over the whole batch each epoch.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return errors.Wrap(ErrModel, "linreg: empty X")
	}
	if len(y) != n {
		return errors.Wrap(ErrModel, "linreg: X and y length mismatch")
	}
	if m.Lr <= 0 || m.Epochs <= 0 {
		return errors.Wrapf(ErrModel, "linreg: learning_rate %g and epochs %d must be positive", m.Lr, m.Epochs)
	}
	p := len(X[0])
	m.W = make([]float64, p)
	m.B = 0

	for ep := 0; ep < m.Epochs; ep++ {
		gW := make([]float64, p)
		gB := 0.0
		for i, row := range X {
			pred := m.B
			for j, v := range row {
				pred += m.W[j] * v
			}
			d := 2 * (pred - y[i]) / float64(n)
			for j, v := range row {
				gW[j] += d * v
			}
			gB += d
		}
		for j := range m.W {
			m.W[j] -= m.Lr * gW[j]
		}
		m.B -= m.Lr * gB
	}
	return nil
}

// Predict returns the linear response for each row.
func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if m.W == nil {
		return nil, errors.Wrap(ErrModel, "linreg: not fitted")
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.W) {
			return nil, errors.Wrapf(ErrModel, "linreg: row has %d features, fitted on %d", len(row), len(m.W))
		}
		sum := m.B
		for j, v := range row {
			sum += m.W[j] * v
		}
		out[i] = sum
	}
	return out, nil
}
