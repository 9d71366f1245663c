package dataprep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mlpipeline/pkg/dataset"
)

func TestImputeNumericMean(t *testing.T) {
	col := &dataset.Column{Name: "x", DType: dataset.Float, Values: []string{"1", "", "3", "NA"}}
	ImputeNumericMean(col)
	require.Equal(t, []string{"1", "2", "3", "2"}, col.Values)
}

func TestImputeCategoricalMode(t *testing.T) {
	col := &dataset.Column{Name: "c", DType: dataset.String, Values: []string{"red", "", "red", "blue"}}
	ImputeCategoricalMode(col)
	require.Equal(t, []string{"red", "red", "red", "blue"}, col.Values)
}

func TestImputeCategoricalMode_AllMissing(t *testing.T) {
	col := &dataset.Column{Name: "c", DType: dataset.String, Values: []string{"", "NaN"}}
	ImputeCategoricalMode(col)
	require.Equal(t, []string{"unknown", "unknown"}, col.Values)
}

func TestLabelEncoder_SortedClasses(t *testing.T) {
	enc := NewLabelEncoder("color")
	codes := enc.FitTransform([]string{"red", "blue", "red", "green"})
	require.Equal(t, []string{"blue", "green", "red"}, enc.Classes)
	require.Equal(t, []float64{2, 0, 2, 1}, codes)

	label, err := enc.InverseTransform(1)
	require.NoError(t, err)
	require.Equal(t, "green", label)
}

func TestLabelEncoder_UnseenCategory(t *testing.T) {
	enc := NewLabelEncoder("color")
	enc.Fit([]string{"red", "blue"})
	_, err := enc.Transform([]string{"purple"})
	require.ErrorIs(t, err, ErrTransform)
}

func TestLabelEncoder_InverseOutOfRange(t *testing.T) {
	enc := NewLabelEncoder("color")
	enc.Fit([]string{"red", "blue"})
	_, err := enc.InverseTransform(5)
	require.ErrorIs(t, err, ErrTransform)
}

func TestStandardScaler_Transform(t *testing.T) {
	s := NewStandardScaler([]string{"a", "b"})
	X := [][]float64{{0, 10}, {2, 10}, {4, 10}}
	out, err := s.FitTransform(X)
	require.NoError(t, err)

	// Column a standardizes exactly; constant column b maps to zero.
	require.InDelta(t, -1.2247, out[0][0], 1e-3)
	require.InDelta(t, 0, out[1][0], 1e-9)
	require.InDelta(t, 1.2247, out[2][0], 1e-3)
	for i := range out {
		require.Zero(t, out[i][1])
	}
}

func TestStandardScaler_WidthMismatch(t *testing.T) {
	s := NewStandardScaler([]string{"a"})
	_, err := s.FitTransform([][]float64{{1, 2}})
	require.ErrorIs(t, err, ErrTransform)

	require.NoError(t, s.Fit([][]float64{{1}, {2}}))
	_, err = s.Transform([][]float64{{1, 2}})
	require.ErrorIs(t, err, ErrTransform)
}

func TestStandardScaler_NotFitted(t *testing.T) {
	s := NewStandardScaler([]string{"a"})
	_, err := s.Transform([][]float64{{1}})
	require.ErrorIs(t, err, ErrTransform)
}
