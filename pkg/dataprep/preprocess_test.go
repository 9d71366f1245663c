package dataprep

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"mlpipeline/pkg/dataset"
)

func mixedFrame(t *testing.T, n int) (*dataset.Frame, *dataset.Column) {
	t.Helper()
	rows := make([][]string, n)
	target := make([]string, n)
	for i := range rows {
		num, cat := "1", "red"
		if i%2 == 0 {
			num = "3"
		}
		target[i] = "no"
		if i%3 == 0 {
			cat = "blue"
			target[i] = "yes"
		}
		rows[i] = []string{num, cat}
	}
	rows[0][0] = "" // one missing numeric cell
	rows[1][1] = "" // one missing categorical cell
	f, err := dataset.New([]string{"num", "cat"}, rows)
	require.NoError(t, err)
	return f, &dataset.Column{Name: "outcome", DType: dataset.String, Values: target}
}

func TestFitTransform_MixedColumns(t *testing.T) {
	f, target := mixedFrame(t, 30)
	res, err := FitTransform(f, target, 0.2, 42, zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, MetadataSchemaVersion, res.Metadata.SchemaVersion)
	require.Equal(t, "outcome", res.Metadata.TargetColumn)
	require.Equal(t, []string{"num", "cat"}, res.Metadata.FeatureColumns)
	require.Equal(t, []string{"cat"}, res.Metadata.CategoricalColumns)
	// After encoding, every column is numeric and covered by the scaler.
	require.Equal(t, []string{"num", "cat"}, res.Metadata.NumericColumns)

	require.NotNil(t, res.Scaler)
	require.Contains(t, res.Encoders, "cat")
	require.NotNil(t, res.TargetEncoder)
	require.Equal(t, []string{"no", "yes"}, res.Metadata.TargetClasses)

	require.Len(t, res.XTest, 6) // ceil(0.2 * 30)
	require.Len(t, res.XTrain, 24)
	require.Equal(t, res.Metadata.TrainRows, len(res.XTrain))
	require.Equal(t, res.Metadata.TestRows, len(res.XTest))
}

func TestFitTransform_NumericTargetSkipsEncoder(t *testing.T) {
	f := dataset.FromMatrix([]string{"a"}, [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}, {10}})
	target := &dataset.Column{Name: "y", DType: dataset.Int, Values: []string{"0", "1", "0", "1", "0", "1", "0", "1", "0", "1"}}

	res, err := FitTransform(f, target, 0.2, 42, zerolog.Nop())
	require.NoError(t, err)
	require.Nil(t, res.TargetEncoder)
	require.Empty(t, res.Encoders)
	require.Empty(t, res.Metadata.TargetClasses)
}

func TestFitTransform_InfeasibleSplit(t *testing.T) {
	f := dataset.FromMatrix([]string{"a"}, [][]float64{{1}, {2}, {3}})
	target := &dataset.Column{Name: "y", DType: dataset.Int, Values: []string{"0", "0", "1"}}
	_, err := FitTransform(f, target, 0.2, 42, zerolog.Nop())
	require.ErrorIs(t, err, ErrSplit)
}
