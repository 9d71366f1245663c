package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mlpipeline/pkg/model"
)

// staticRanker is a minimal estimator with fixed importances.
type staticRanker struct {
	importances []float64
}

func (s *staticRanker) Fit([][]float64, []float64) error { return nil }

func (s *staticRanker) Predict(X [][]float64) ([]float64, error) {
	return make([]float64, len(X)), nil
}

func (s *staticRanker) FeatureImportances() []float64 { return s.importances }

func TestEvaluate_Classification(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1, 1}
	yPred := []float64{0, 1, 1, 1, 1}

	ev := Evaluate(model.Classification, yTrue, yPred, []string{"a"}, &staticRanker{importances: []float64{1}})
	require.Equal(t, EvaluationSchemaVersion, ev.SchemaVersion)
	require.Equal(t, 5, ev.NTestSamples)
	require.NotNil(t, ev.Classification)
	require.Nil(t, ev.Regression)
	require.InDelta(t, 0.8, ev.Classification.Accuracy, 1e-12)
	require.Equal(t, Fair, ev.Grade)
	require.Equal(t, ev.Classification.Accuracy, ev.PrimaryMetric())
	require.Equal(t, []FeatureWeight{{Feature: "a", Importance: 1}}, ev.FeatureImportance)
}

func TestEvaluate_Regression(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{1.1, 1.9, 3.2, 3.8}

	ev := Evaluate(model.Regression, yTrue, yPred, nil, &staticRanker{})
	require.Nil(t, ev.Classification)
	require.NotNil(t, ev.Regression)
	require.Greater(t, ev.Regression.R2, 0.9)
	require.Equal(t, Excellent, ev.Grade)
	require.Equal(t, ev.Regression.R2, ev.PrimaryMetric())
}

func TestRankFeatures(t *testing.T) {
	m := &staticRanker{importances: []float64{0.1, 0.7, 0.2}}
	ranked := RankFeatures([]string{"a", "b", "c"}, m)
	require.Equal(t, []FeatureWeight{
		{Feature: "b", Importance: 0.7},
		{Feature: "c", Importance: 0.2},
		{Feature: "a", Importance: 0.1},
	}, ranked)
}

func TestRankFeatures_NoCapabilityOrMismatch(t *testing.T) {
	lin := model.NewLinearRegression()
	require.Nil(t, RankFeatures([]string{"a"}, lin))

	m := &staticRanker{importances: []float64{0.5}}
	require.Nil(t, RankFeatures([]string{"a", "b"}, m))
}

func TestMarkdown_Classification(t *testing.T) {
	ev := Evaluate(model.Classification, []float64{0, 1}, []float64{0, 1}, nil, &staticRanker{})
	meta := &model.Metadata{ModelType: "RandomForestClassifier", Algorithm: "random_forest", NFeatures: 2}

	md := Markdown(ev, meta)
	require.True(t, strings.HasPrefix(md, "# Model Evaluation Report"))
	require.Contains(t, md, "RandomForestClassifier")
	require.Contains(t, md, "**Accuracy**: 1.0000")
	require.Contains(t, md, "confusion_matrix.png")
	require.NotContains(t, md, "regression_plots.png")
}

func TestMarkdown_Regression(t *testing.T) {
	ev := Evaluate(model.Regression, []float64{1, 2, 3}, []float64{1, 2, 3}, nil, &staticRanker{})
	meta := &model.Metadata{ModelType: "LinearRegression", Algorithm: "linear_regression"}

	md := Markdown(ev, meta)
	require.Contains(t, md, "regression_plots.png")
	require.Contains(t, md, "R² Score")
	require.NotContains(t, md, "confusion_matrix.png")
}
