package stage

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"mlpipeline/pkg/artifact"
	"mlpipeline/pkg/dataset"
)

// targetCandidates are checked in order when discovering the target column.
// When none matches, the last column is the target.
var targetCandidates = []string{"target", "label", "y", "class"}

// TargetColumn returns the name of the target column in the frame.
func TargetColumn(f *dataset.Frame) string {
	for _, cand := range targetCandidates {
		if f.Column(cand) != nil {
			return cand
		}
	}
	names := f.Names()
	return names[len(names)-1]
}

// SummarySchemaVersion guards the persisted data summary layout.
const SummarySchemaVersion = 1

// Summary is the data_summary.json artifact describing the ingested dataset.
type Summary struct {
	SchemaVersion  int                 `json:"schema_version"`
	Shape          [2]int              `json:"shape"`
	Columns        []string            `json:"columns"`
	DTypes         map[string]string   `json:"dtypes"`
	MissingValues  map[string]int      `json:"missing_values"`
	NumericColumns []string            `json:"numeric_columns"`
	TargetColumn   string              `json:"target_column"`
	SampleData     map[string][]string `json:"sample_data"`
}

// Ingestion loads the configured input dataset, synthesizing a sample one
// when the input file does not exist, and publishes the validated data plus
// its summary for the downstream stages.
type Ingestion struct{}

func (Ingestion) Name() string { return "data_ingestion" }

func (Ingestion) Requires(*artifact.Store) []string { return nil }

func (Ingestion) Execute(ctx *Context) (map[string]any, []string, error) {
	path := ctx.Config.Data.InputPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		ctx.Log.Info().Str("path", path).Msg("input missing, synthesizing sample dataset")
		if err := writeSampleDataset(path); err != nil {
			return nil, nil, err
		}
	}

	frame, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, nil, err
	}
	if frame.NumRows() == 0 || frame.NumCols() == 0 {
		return nil, nil, errors.Errorf("%s: dataset is empty", path)
	}

	summary := summarize(frame)
	ctx.Log.Info().
		Int("rows", frame.NumRows()).
		Int("cols", frame.NumCols()).
		Str("target", summary.TargetColumn).
		Msg("dataset validated")

	dataPath, err := writeFrame(ctx.Store, artifact.DirIngestion, "ingested_data.csv", frame)
	if err != nil {
		return nil, nil, err
	}
	// The summary is written last so its presence marks a complete stage.
	summaryPath, err := ctx.Store.WriteJSON(artifact.DirIngestion, "data_summary.json", summary)
	if err != nil {
		return nil, nil, err
	}

	outputs := map[string]any{
		"data_shape":      [2]int{frame.NumRows(), frame.NumCols()},
		"data_path":       dataPath,
		"summary_path":    summaryPath,
		"columns":         frame.Names(),
		"numeric_columns": len(summary.NumericColumns),
	}
	return outputs, []string{dataPath, summaryPath}, nil
}

func summarize(f *dataset.Frame) *Summary {
	s := &Summary{
		SchemaVersion: SummarySchemaVersion,
		Shape:         [2]int{f.NumRows(), f.NumCols()},
		Columns:       f.Names(),
		DTypes:        make(map[string]string, f.NumCols()),
		MissingValues: make(map[string]int, f.NumCols()),
		TargetColumn:  TargetColumn(f),
		SampleData:    make(map[string][]string, f.NumCols()),
	}
	head := f.NumRows()
	if head > 5 {
		head = 5
	}
	for _, c := range f.Columns {
		s.DTypes[c.Name] = c.DType.String()
		s.MissingValues[c.Name] = c.Missing()
		if c.DType != dataset.String {
			s.NumericColumns = append(s.NumericColumns, c.Name)
		}
		s.SampleData[c.Name] = c.Values[:head]
	}
	return s
}

// writeSampleDataset synthesizes a reproducible binary classification
// dataset: 1000 rows of 20 standard-normal features, target set where the
// sum of the first two features plus small noise is positive.
func writeSampleDataset(path string) error {
	const (
		nSamples  = 1000
		nFeatures = 20
		seed      = 42
	)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create data dir %s", dir)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	names := make([]string, nFeatures)
	for j := range names {
		names[j] = "feature_" + strconv.Itoa(j)
	}
	X := make([][]float64, nSamples)
	y := make([]float64, nSamples)
	for i := range X {
		row := make([]float64, nFeatures)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		X[i] = row
		if row[0]+row[1]+rng.NormFloat64()*0.1 > 0 {
			y[i] = 1
		}
	}

	frame := dataset.FromMatrix(names, X)
	target := dataset.FromVector("target", y)
	frame.Columns = append(frame.Columns, target.Columns[0])
	return frame.WriteCSV(path)
}

func writeFrame(store *artifact.Store, stageDir, name string, f *dataset.Frame) (string, error) {
	if _, err := store.StageDir(stageDir); err != nil {
		return "", err
	}
	path := store.Path(stageDir, name)
	if err := f.WriteCSV(path); err != nil {
		return "", err
	}
	return path, nil
}

func writeText(store *artifact.Store, stageDir, name, text string) (string, error) {
	if _, err := store.StageDir(stageDir); err != nil {
		return "", err
	}
	path := store.Path(stageDir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}
