package stage

import (
	"github.com/pkg/errors"

	"mlpipeline/pkg/artifact"
	"mlpipeline/pkg/dataprep"
	"mlpipeline/pkg/dataset"
	"mlpipeline/pkg/model"
	"mlpipeline/pkg/report"
)

// Evaluation scores the trained model on the held-out split and publishes
// the metric artifacts, plots and human-readable report.
type Evaluation struct{}

func (Evaluation) Name() string { return "evaluation" }

func (Evaluation) Requires(store *artifact.Store) []string {
	missing := store.Missing(artifact.DirTraining, "trained_model.gob", "model_metadata.json")
	missing = append(missing, store.Missing(artifact.DirPreprocessing, "X_test.csv", "y_test.csv")...)
	return missing
}

func (Evaluation) Execute(ctx *Context) (map[string]any, []string, error) {
	var env model.Envelope
	if err := ctx.Store.ReadGob(artifact.DirTraining, "trained_model.gob", &env); err != nil {
		return nil, nil, err
	}
	est, err := env.Unwrap()
	if err != nil {
		return nil, nil, err
	}
	var meta model.Metadata
	if err := ctx.Store.ReadJSON(artifact.DirTraining, "model_metadata.json", &meta); err != nil {
		return nil, nil, err
	}

	xTest, err := dataset.ReadCSV(ctx.Store.Path(artifact.DirPreprocessing, "X_test.csv"))
	if err != nil {
		return nil, nil, err
	}
	yFrame, err := dataset.ReadCSV(ctx.Store.Path(artifact.DirPreprocessing, "y_test.csv"))
	if err != nil {
		return nil, nil, err
	}
	if yFrame.NumCols() != 1 {
		return nil, nil, errors.Errorf("y_test.csv must have exactly one column")
	}
	if err := checkFeatureOrder(xTest.Names(), meta.Features); err != nil {
		return nil, nil, err
	}

	yTrue := yFrame.Columns[0].Floats()
	yPred, err := est.Predict(xTest.Matrix())
	if err != nil {
		return nil, nil, err
	}

	task := meta.ProblemType
	ctx.Log.Info().
		Stringer("problem_type", task).
		Str("model", meta.ModelType).
		Int("samples", len(yTrue)).
		Msg("evaluating model")

	ev := report.Evaluate(task, yTrue, yPred, meta.Features, est)
	ctx.Log.Info().
		Stringer("grade", ev.Grade).
		Float64("primary_metric", ev.PrimaryMetric()).
		Msg("evaluation complete")

	predPath, err := writeFrame(ctx.Store, artifact.DirEvaluation, "detailed_predictions.csv", detailedPredictions(task, yTrue, yPred))
	if err != nil {
		return nil, nil, err
	}
	artifacts := []string{predPath}

	if task == model.Classification {
		path := ctx.Store.Path(artifact.DirEvaluation, "confusion_matrix.png")
		if err := report.ConfusionMatrixPlot(ev.Classification.ConfusionLabels, ev.Classification.ConfusionMatrix, path); err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
	} else {
		path := ctx.Store.Path(artifact.DirEvaluation, "regression_plots.png")
		if err := report.RegressionPlot(yTrue, yPred, path); err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
	}
	if len(ev.FeatureImportance) > 0 {
		path := ctx.Store.Path(artifact.DirEvaluation, "feature_importance.png")
		if err := report.FeatureImportancePlot(ev.FeatureImportance, path); err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
	}

	resultsPath, err := ctx.Store.WriteJSON(artifact.DirEvaluation, "evaluation_results.json", ev)
	if err != nil {
		return nil, nil, err
	}
	md := report.Markdown(ev, &meta)
	reportPath, err := writeText(ctx.Store, artifact.DirEvaluation, "evaluation_report.md", md)
	if err != nil {
		return nil, nil, err
	}
	artifacts = append(artifacts, resultsPath, reportPath)

	outputs := map[string]any{
		"problem_type":      task.String(),
		"performance_grade": ev.Grade.String(),
		"primary_metric":    ev.PrimaryMetric(),
		"n_test_samples":    ev.NTestSamples,
	}
	return outputs, artifacts, nil
}

// checkFeatureOrder rejects a feature matrix whose columns differ, in name
// or order, from the recorded column set.
func checkFeatureOrder(got, want []string) error {
	if len(got) != len(want) {
		return errors.Wrapf(dataprep.ErrTransform, "feature matrix has %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return errors.Wrapf(dataprep.ErrTransform, "feature column %d is %q, want %q", i, got[i], want[i])
		}
	}
	return nil
}

func detailedPredictions(task model.ProblemType, yTrue, yPred []float64) *dataset.Frame {
	cols := []*dataset.Column{
		dataset.FromVector("actual", yTrue).Columns[0],
		dataset.FromVector("predicted", yPred).Columns[0],
	}
	if task == model.Regression {
		errs := make([]float64, len(yTrue))
		for i := range errs {
			errs[i] = yTrue[i] - yPred[i]
		}
		cols = append(cols, dataset.FromVector("error", errs).Columns[0])
	}
	return &dataset.Frame{Columns: cols}
}
