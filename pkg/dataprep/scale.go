package dataprep

import (
	"math"

	"github.com/pkg/errors"

	"mlpipeline/pkg/stats"
)

// StandardScaler standardizes each bound column to zero mean and unit
// variance. Columns records the exact ordered column set the scaler was fit
// on; transforming a matrix of a different width is a transform mismatch.
type StandardScaler struct {
	Columns []string
	Mean    []float64
	Std     []float64
}

// NewStandardScaler returns an unfitted scaler bound to ordered columns.
func NewStandardScaler(columns []string) *StandardScaler {
	return &StandardScaler{Columns: columns}
}

// Fit learns per-column mean and standard deviation. Constant columns get a
// unit deviation so that transforming maps them to zero.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.Wrap(ErrTransform, "scaler: empty matrix")
	}
	c := len(s.Columns)
	if len(X[0]) != c {
		return errors.Wrapf(ErrTransform, "scaler: fit on %d columns, bound to %d", len(X[0]), c)
	}
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, len(X))
	for j := 0; j < c; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Mean[j] = stats.Mean(col)
		s.Std[j] = stats.Std(col)
		if s.Std[j] == 0 || math.IsNaN(s.Std[j]) {
			s.Std[j] = 1
		}
	}
	return nil
}

// Transform standardizes X with the fitted parameters.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, errors.Wrap(ErrTransform, "scaler: not fitted")
	}
	c := len(s.Columns)
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != c {
			return nil, errors.Wrapf(ErrTransform, "scaler: row has %d columns, fitted on %d", len(row), c)
		}
		scaled := make([]float64, c)
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler and standardizes X in one step.
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
