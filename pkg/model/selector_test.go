package model

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSelect_KnownAlgorithms(t *testing.T) {
	tests := []struct {
		task ProblemType
		id   string
		want string
	}{
		{Classification, "random_forest", "RandomForestClassifier"},
		{Classification, "decision_tree", "DecisionTreeClassifier"},
		{Classification, "logistic_regression", "LogisticRegression"},
		{Regression, "random_forest", "RandomForestRegressor"},
		{Regression, "decision_tree", "DecisionTreeRegressor"},
		{Regression, "linear_regression", "LinearRegression"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			m, err := Select(tt.task, tt.id, nil, zerolog.Nop())
			require.NoError(t, err)
			require.Equal(t, tt.want, Name(m))
		})
	}
}

func TestSelect_FallbackToRandomForest(t *testing.T) {
	// Unknown algorithm id.
	m, err := Select(Classification, "svm", nil, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "RandomForestClassifier", Name(m))

	// Known algorithm, wrong problem type.
	m, err = Select(Regression, "logistic_regression", nil, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "RandomForestRegressor", Name(m))

	m, err = Select(Classification, "linear_regression", nil, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "RandomForestClassifier", Name(m))
}

func TestSelect_ParametersApplied(t *testing.T) {
	m, err := Select(Classification, "random_forest", map[string]float64{
		"n_estimators": 7,
		"max_depth":    3,
	}, zerolog.Nop())
	require.NoError(t, err)

	forest, ok := m.(*RandomForest)
	require.True(t, ok)
	require.Equal(t, 7, forest.NEstimators)
	require.Equal(t, 3, forest.MaxDepth)
}

func TestSelect_UnknownHyperparameter(t *testing.T) {
	_, err := Select(Classification, "random_forest", map[string]float64{"gamma": 1, "alpha": 2}, zerolog.Nop())
	require.ErrorIs(t, err, ErrModel)
	// Offenders are listed sorted for stable messages.
	require.Contains(t, err.Error(), "[alpha gamma]")
}

func TestSelect_InvalidHyperparameterValue(t *testing.T) {
	_, err := Select(Classification, "random_forest", map[string]float64{"n_estimators": 0}, zerolog.Nop())
	require.ErrorIs(t, err, ErrModel)

	_, err = Select(Classification, "logistic_regression", map[string]float64{"learning_rate": -1}, zerolog.Nop())
	require.ErrorIs(t, err, ErrModel)
}
