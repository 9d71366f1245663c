package report

import (
	"sort"

	"mlpipeline/pkg/model"
)

// EvaluationSchemaVersion guards the persisted evaluation artifact layout.
const EvaluationSchemaVersion = 1

// ClassificationMetrics is the metric set for classification problems.
type ClassificationMetrics struct {
	Accuracy        float64                       `json:"accuracy"`
	Precision       float64                       `json:"precision"`
	Recall          float64                       `json:"recall"`
	F1              float64                       `json:"f1_score"`
	ConfusionLabels []float64                     `json:"confusion_labels"`
	ConfusionMatrix [][]int                       `json:"confusion_matrix"`
	Report          map[string]model.ClassMetrics `json:"classification_report"`
}

// RegressionMetrics is the metric set for regression problems.
type RegressionMetrics struct {
	MSE  float64 `json:"mse"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2_score"`
}

// FeatureWeight pairs a feature name with its importance.
type FeatureWeight struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Evaluation is the persisted outcome of the evaluation stage. Exactly one
// of Classification or Regression is set.
type Evaluation struct {
	SchemaVersion     int                    `json:"schema_version"`
	ProblemType       model.ProblemType      `json:"problem_type"`
	NTestSamples      int                    `json:"n_test_samples"`
	Classification    *ClassificationMetrics `json:"classification,omitempty"`
	Regression        *RegressionMetrics     `json:"regression,omitempty"`
	FeatureImportance []FeatureWeight        `json:"feature_importance,omitempty"`
	Grade             Grade                  `json:"performance_grade"`
}

// PrimaryMetric returns the value the grade was derived from: accuracy for
// classification, R² for regression.
func (e *Evaluation) PrimaryMetric() float64 {
	if e.Classification != nil {
		return e.Classification.Accuracy
	}
	if e.Regression != nil {
		return e.Regression.R2
	}
	return 0
}

// Evaluate computes the full metric set, optional importance ranking and
// grade for predictions on the held-out split.
func Evaluate(task model.ProblemType, yTrue, yPred []float64, features []string, m model.Model) *Evaluation {
	ev := &Evaluation{
		SchemaVersion: EvaluationSchemaVersion,
		ProblemType:   task,
		NTestSamples:  len(yTrue),
	}
	if task == model.Classification {
		prec, rec, f1 := model.WeightedPRF1(yTrue, yPred)
		labels, cm := model.ConfusionMatrix(yTrue, yPred)
		ev.Classification = &ClassificationMetrics{
			Accuracy:        model.Accuracy(yTrue, yPred),
			Precision:       prec,
			Recall:          rec,
			F1:              f1,
			ConfusionLabels: labels,
			ConfusionMatrix: cm,
			Report:          model.ClassificationReport(yTrue, yPred),
		}
	} else {
		mse := model.MSE(yTrue, yPred)
		ev.Regression = &RegressionMetrics{
			MSE:  mse,
			MAE:  model.MAE(yTrue, yPred),
			RMSE: model.RMSE(yTrue, yPred),
			R2:   model.R2(yTrue, yPred),
		}
	}
	ev.FeatureImportance = RankFeatures(features, m)
	ev.Grade = GradeFor(task, ev.PrimaryMetric())
	return ev
}

// RankFeatures returns features sorted by descending importance when the
// estimator has the ranking capability, nil otherwise.
func RankFeatures(features []string, m model.Model) []FeatureWeight {
	ranker, ok := m.(model.FeatureRanker)
	if !ok {
		return nil
	}
	importances := ranker.FeatureImportances()
	if len(importances) != len(features) {
		return nil
	}
	out := make([]FeatureWeight, len(features))
	for i, f := range features {
		out[i] = FeatureWeight{Feature: f, Importance: importances[i]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Importance > out[b].Importance })
	return out
}
