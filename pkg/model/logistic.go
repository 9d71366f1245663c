package model

import (
	"math"

	"github.com/pkg/errors"
)

// LogisticRegression is a binary classifier trained by full-batch gradient
// descent on the log loss. Class labels may be any two distinct values; they
// are mapped onto {0, 1} internally.
type LogisticRegression struct {
	Lr     float64
	Epochs int

	W           []float64
	B           float64
	ClassValues []float64 // sorted; index 1 is the positive class
}

// NewLogisticRegression returns a classifier with default learning settings.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{Lr: 0.1, Epochs: 500}
}

// Fit trains the classifier. Targets with more than two classes are a model
// error.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return errors.Wrap(ErrModel, "logreg: empty X")
	}
	if len(y) != n {
		return errors.Wrap(ErrModel, "logreg: X and y length mismatch")
	}
	if m.Lr <= 0 || m.Epochs <= 0 {
		return errors.Wrapf(ErrModel, "logreg: learning_rate %g and epochs %d must be positive", m.Lr, m.Epochs)
	}
	m.ClassValues = sortedUnique(y)
	if len(m.ClassValues) != 2 {
		return errors.Wrapf(ErrModel, "logreg: need exactly 2 classes, got %d", len(m.ClassValues))
	}
	bin := make([]float64, n)
	for i, v := range y {
		if v == m.ClassValues[1] {
			bin[i] = 1
		}
	}

	p := len(X[0])
	m.W = make([]float64, p)
	m.B = 0
	for ep := 0; ep < m.Epochs; ep++ {
		gW := make([]float64, p)
		gB := 0.0
		for i, row := range X {
			d := (m.proba(row) - bin[i]) / float64(n)
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

// Predict returns the most probable class label for each row.
func (m *LogisticRegression) Predict(X [][]float64) ([]float64, error) {
	probas, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range probas {
		if row[1] >= 0.5 {
			out[i] = m.ClassValues[1]
		} else {
			out[i] = m.ClassValues[0]
		}
	}
	return out, nil
}

// PredictProba returns [p(class0), p(class1)] rows aligned with Classes.
func (m *LogisticRegression) PredictProba(X [][]float64) ([][]float64, error) {
	if m.W == nil {
		return nil, errors.Wrap(ErrModel, "logreg: not fitted")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.W) {
			return nil, errors.Wrapf(ErrModel, "logreg: row has %d features, fitted on %d", len(row), len(m.W))
		}
		p := m.proba(row)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

// Classes returns the two class labels in sorted order.
func (m *LogisticRegression) Classes() []float64 { return m.ClassValues }

func (m *LogisticRegression) proba(row []float64) float64 {
	z := m.B
	for j, v := range row {
		z += m.W[j] * v
	}
	return 1 / (1 + math.Exp(-z))
}
