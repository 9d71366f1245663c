package stage

import (
	"github.com/pkg/errors"

	"mlpipeline/pkg/artifact"
	"mlpipeline/pkg/dataprep"
	"mlpipeline/pkg/dataset"
	"mlpipeline/pkg/model"
)

// Training fits the configured estimator on the preprocessed splits and
// publishes the trained model, its held-out predictions and its metrics.
type Training struct{}

func (Training) Name() string { return "model_training" }

func (Training) Requires(store *artifact.Store) []string {
	return store.Missing(artifact.DirPreprocessing,
		"X_train.csv", "X_test.csv", "y_train.csv", "y_test.csv", "preprocessing_metadata.json")
}

func (Training) Execute(ctx *Context) (map[string]any, []string, error) {
	splits, err := loadSplits(ctx.Store)
	if err != nil {
		return nil, nil, err
	}
	var meta dataprep.Metadata
	if err := ctx.Store.ReadJSON(artifact.DirPreprocessing, "preprocessing_metadata.json", &meta); err != nil {
		return nil, nil, err
	}
	if err := checkFeatureOrder(splits.features, meta.FeatureColumns); err != nil {
		return nil, nil, err
	}

	task := model.DetectProblemType(splits.yTrainCol)
	ctx.Log.Info().
		Stringer("problem_type", task).
		Int("train_rows", len(splits.XTrain)).
		Int("test_rows", len(splits.XTest)).
		Msg("problem type determined")

	est, err := model.Select(task, ctx.Config.Model.Algorithm, ctx.Config.Model.Parameters, ctx.Log)
	if err != nil {
		return nil, nil, err
	}
	modelName := model.Name(est)
	ctx.Log.Info().Str("model", modelName).Msg("training estimator")

	if err := est.Fit(splits.XTrain, splits.YTrain); err != nil {
		return nil, nil, err
	}
	yTrainPred, err := est.Predict(splits.XTrain)
	if err != nil {
		return nil, nil, err
	}
	yTestPred, err := est.Predict(splits.XTest)
	if err != nil {
		return nil, nil, err
	}

	metrics := trainingMetrics(task, splits, yTrainPred, yTestPred)
	if ranker, ok := est.(model.FeatureRanker); ok {
		importances := ranker.FeatureImportances()
		byFeature := make(map[string]float64, len(importances))
		for i, name := range splits.features {
			if i < len(importances) {
				byFeature[name] = importances[i]
			}
		}
		metrics["feature_importance"] = byFeature
	}

	modelPath, err := ctx.Store.WriteGob(artifact.DirTraining, "trained_model.gob", &model.Envelope{Model: est})
	if err != nil {
		return nil, nil, err
	}
	predFrame := &dataset.Frame{Columns: []*dataset.Column{
		dataset.FromVector("y_true", splits.YTest).Columns[0],
		dataset.FromVector("y_pred", yTestPred).Columns[0],
	}}
	predPath, err := writeFrame(ctx.Store, artifact.DirTraining, "predictions.csv", predFrame)
	if err != nil {
		return nil, nil, err
	}
	metricsPath, err := ctx.Store.WriteJSON(artifact.DirTraining, "training_metrics.json", metrics)
	if err != nil {
		return nil, nil, err
	}

	// The metadata artifact closes the stage; its presence implies the model
	// payload and metrics above are complete on disk.
	modelMeta := model.Metadata{
		SchemaVersion: model.MetadataSchemaVersion,
		ModelType:     modelName,
		ProblemType:   task,
		Algorithm:     ctx.Config.Model.Algorithm,
		Parameters:    ctx.Config.Model.Parameters,
		Features:      splits.features,
		NFeatures:     len(splits.features),
		NSamplesTrain: len(splits.XTrain),
		NSamplesTest:  len(splits.XTest),
	}
	metaPath, err := ctx.Store.WriteJSON(artifact.DirTraining, "model_metadata.json", modelMeta)
	if err != nil {
		return nil, nil, err
	}

	outputs := map[string]any{
		"model_type":   modelName,
		"problem_type": task.String(),
		"model_path":   modelPath,
		"metrics":      metrics,
	}
	return outputs, []string{modelPath, predPath, metricsPath, metaPath}, nil
}

// splits bundles the loaded preprocessing outputs. yTrainCol keeps the raw
// target column so problem-type inference can inspect its dtype.
type splits struct {
	features      []string
	XTrain, XTest [][]float64
	YTrain, YTest []float64
	yTrainCol     *dataset.Column
}

func loadSplits(store *artifact.Store) (*splits, error) {
	xTrain, err := dataset.ReadCSV(store.Path(artifact.DirPreprocessing, "X_train.csv"))
	if err != nil {
		return nil, err
	}
	xTest, err := dataset.ReadCSV(store.Path(artifact.DirPreprocessing, "X_test.csv"))
	if err != nil {
		return nil, err
	}
	yTrain, err := dataset.ReadCSV(store.Path(artifact.DirPreprocessing, "y_train.csv"))
	if err != nil {
		return nil, err
	}
	yTest, err := dataset.ReadCSV(store.Path(artifact.DirPreprocessing, "y_test.csv"))
	if err != nil {
		return nil, err
	}
	if yTrain.NumCols() != 1 || yTest.NumCols() != 1 {
		return nil, errors.Errorf("target splits must have exactly one column")
	}
	return &splits{
		features:  xTrain.Names(),
		XTrain:    xTrain.Matrix(),
		XTest:     xTest.Matrix(),
		YTrain:    yTrain.Columns[0].Floats(),
		YTest:     yTest.Columns[0].Floats(),
		yTrainCol: yTrain.Columns[0],
	}, nil
}

func trainingMetrics(task model.ProblemType, s *splits, yTrainPred, yTestPred []float64) map[string]any {
	m := map[string]any{"problem_type": task.String()}
	if task == model.Classification {
		m["train_accuracy"] = model.Accuracy(s.YTrain, yTrainPred)
		m["test_accuracy"] = model.Accuracy(s.YTest, yTestPred)
		m["classification_report"] = model.ClassificationReport(s.YTest, yTestPred)
	} else {
		m["train_mse"] = model.MSE(s.YTrain, yTrainPred)
		m["test_mse"] = model.MSE(s.YTest, yTestPred)
		m["train_r2"] = model.R2(s.YTrain, yTrainPred)
		m["test_r2"] = model.R2(s.YTest, yTestPred)
	}
	return m
}
