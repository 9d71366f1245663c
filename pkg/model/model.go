// Package model provides the trainable estimators, the problem-type
// inference, the metric functions and the algorithm selection table.
package model

import "errors"

// ErrModel marks a fit or predict failure from an estimator.
var ErrModel = errors.New("model failure")

// Model is a generic supervised learning interface. Class labels travel as
// float64 codes so classification and regression share one surface.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
}

// ProbabilityClassifier is the capability of producing per-class
// probabilities. Estimators either implement it or not; callers assert the
// interface instead of probing attributes at runtime.
type ProbabilityClassifier interface {
	Model
	// PredictProba returns one probability row per input, aligned with
	// Classes().
	PredictProba(X [][]float64) ([][]float64, error)
	Classes() []float64
}

// FeatureRanker is the capability of ranking input features by importance.
type FeatureRanker interface {
	// FeatureImportances returns one non-negative weight per feature,
	// summing to 1, aligned with the training column order.
	FeatureImportances() []float64
}
