package dataprep

import (
	"github.com/rs/zerolog"

	"mlpipeline/pkg/dataset"
)

// MetadataSchemaVersion is bumped whenever the persisted metadata layout
// changes, so downstream stages can detect a mismatched artifact instead of
// silently misreading it.
const MetadataSchemaVersion = 1

// Metadata describes how the feature matrix was produced. FeatureColumns is
// the exact column order of every persisted split; downstream consumers must
// feed models in this order.
type Metadata struct {
	SchemaVersion      int      `json:"schema_version"`
	TargetColumn       string   `json:"target_column"`
	FeatureColumns     []string `json:"feature_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
	NumericColumns     []string `json:"numeric_columns"`
	TrainRows          int      `json:"train_rows"`
	TestRows           int      `json:"test_rows"`
	TestSize           float64  `json:"test_size"`
	RandomState        int64    `json:"random_state"`
	TargetClasses      []string `json:"target_classes,omitempty"`
}

// Result bundles everything preprocessing produces. The three transforms are
// optional: a nil scaler/encoder map/target encoder is a valid state meaning
// that step did not apply.
type Result struct {
	XTrain, XTest [][]float64
	YTrain, YTest []float64
	Scaler        *StandardScaler
	Encoders      map[string]*LabelEncoder
	TargetEncoder *LabelEncoder
	Metadata      Metadata
}

// FitTransform imputes, encodes, scales and splits the feature frame.
//
// Policy, in order:
//   - numeric columns: missing cells filled with the pre-split column mean
//   - categorical columns: missing cells filled with the mode, or "unknown"
//   - every categorical column gets its own fitted label encoder
//   - all columns are then numeric and are jointly standardized
//   - a non-numeric target is label-encoded over the full vector pre-split
//   - stratified split on the (possibly encoded) target
func FitTransform(features *dataset.Frame, target *dataset.Column, testSize float64, randomState int64, log zerolog.Logger) (*Result, error) {
	res := &Result{
		Metadata: Metadata{
			SchemaVersion:  MetadataSchemaVersion,
			TargetColumn:   target.Name,
			FeatureColumns: features.Names(),
			TestSize:       testSize,
			RandomState:    randomState,
		},
	}

	var categorical []string
	for _, col := range features.Columns {
		if col.DType == dataset.String {
			categorical = append(categorical, col.Name)
			ImputeCategoricalMode(col)
		} else {
			ImputeNumericMean(col)
		}
	}
	res.Metadata.CategoricalColumns = categorical

	// Encode categorical columns in place; afterwards every column parses
	// as a number and participates in scaling.
	if len(categorical) > 0 {
		log.Info().Int("columns", len(categorical)).Msg("encoding categorical columns")
		res.Encoders = make(map[string]*LabelEncoder, len(categorical))
		for _, name := range categorical {
			col := features.Column(name)
			enc := NewLabelEncoder(name)
			codes := enc.FitTransform(col.Values)
			res.Encoders[name] = enc
			replaceWithCodes(col, codes)
		}
	}
	res.Metadata.NumericColumns = features.Names()

	X := features.Matrix()
	if features.NumCols() > 0 {
		log.Info().Int("columns", features.NumCols()).Msg("standardizing feature columns")
		res.Scaler = NewStandardScaler(features.Names())
		scaled, err := res.Scaler.FitTransform(X)
		if err != nil {
			return nil, err
		}
		X = scaled
	}

	y := target.Floats()
	if target.DType == dataset.String {
		log.Info().Str("column", target.Name).Msg("encoding target column")
		res.TargetEncoder = NewLabelEncoder(target.Name)
		y = res.TargetEncoder.FitTransform(target.Values)
		res.Metadata.TargetClasses = res.TargetEncoder.Classes
	}

	var err error
	res.XTrain, res.XTest, res.YTrain, res.YTest, err = StratifiedSplit(X, y, testSize, randomState)
	if err != nil {
		return nil, err
	}
	res.Metadata.TrainRows = len(res.XTrain)
	res.Metadata.TestRows = len(res.XTest)
	return res, nil
}

func replaceWithCodes(col *dataset.Column, codes []float64) {
	encoded := dataset.FromVector(col.Name, codes)
	col.Values = encoded.Columns[0].Values
	col.DType = dataset.Int
}
