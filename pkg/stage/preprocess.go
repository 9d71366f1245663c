package stage

import (
	"github.com/pkg/errors"

	"mlpipeline/pkg/artifact"
	"mlpipeline/pkg/dataprep"
	"mlpipeline/pkg/dataset"
)

// Preprocessing turns the ingested dataset into model-ready train/test
// splits plus the fitted transforms needed to replay the same preparation at
// prediction time.
type Preprocessing struct{}

func (Preprocessing) Name() string { return "preprocessing" }

func (Preprocessing) Requires(store *artifact.Store) []string {
	return store.Missing(artifact.DirIngestion, "ingested_data.csv")
}

func (Preprocessing) Execute(ctx *Context) (map[string]any, []string, error) {
	frame, err := dataset.ReadCSV(ctx.Store.Path(artifact.DirIngestion, "ingested_data.csv"))
	if err != nil {
		return nil, nil, err
	}

	targetName := TargetColumn(frame)
	target := frame.Column(targetName)
	features := frame.Drop(targetName)
	if features.NumCols() == 0 {
		return nil, nil, errors.Errorf("dataset has no feature columns besides target %q", targetName)
	}
	ctx.Log.Info().
		Str("target", targetName).
		Int("features", features.NumCols()).
		Int("rows", frame.NumRows()).
		Msg("preprocessing dataset")

	res, err := dataprep.FitTransform(features, target, ctx.Config.Model.TestSize, ctx.Config.Model.RandomState, ctx.Log)
	if err != nil {
		return nil, nil, err
	}

	cols := res.Metadata.FeatureColumns
	var artifacts []string
	for _, out := range []struct {
		name  string
		frame *dataset.Frame
	}{
		{"X_train.csv", dataset.FromMatrix(cols, res.XTrain)},
		{"X_test.csv", dataset.FromMatrix(cols, res.XTest)},
		{"y_train.csv", dataset.FromVector(targetName, res.YTrain)},
		{"y_test.csv", dataset.FromVector(targetName, res.YTest)},
	} {
		path, err := writeFrame(ctx.Store, artifact.DirPreprocessing, out.name, out.frame)
		if err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
	}

	if res.Scaler != nil {
		path, err := ctx.Store.WriteGob(artifact.DirPreprocessing, "scaler.gob", res.Scaler)
		if err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
	}
	if len(res.Encoders) > 0 {
		path, err := ctx.Store.WriteGob(artifact.DirPreprocessing, "label_encoders.gob", res.Encoders)
		if err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
	}
	if res.TargetEncoder != nil {
		path, err := ctx.Store.WriteGob(artifact.DirPreprocessing, "target_encoder.gob", res.TargetEncoder)
		if err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
	}

	// Metadata last: downstream stages key their precondition on it, so its
	// presence guarantees every split and transform above is on disk.
	metaPath, err := ctx.Store.WriteJSON(artifact.DirPreprocessing, "preprocessing_metadata.json", res.Metadata)
	if err != nil {
		return nil, nil, err
	}
	artifacts = append(artifacts, metaPath)

	outputs := map[string]any{
		"train_shape":         [2]int{len(res.XTrain), len(cols)},
		"test_shape":          [2]int{len(res.XTest), len(cols)},
		"target_column":       targetName,
		"categorical_columns": len(res.Metadata.CategoricalColumns),
		"numeric_columns":     len(res.Metadata.NumericColumns),
	}
	return outputs, artifacts, nil
}
