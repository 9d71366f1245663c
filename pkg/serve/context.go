// Package serve exposes a deployed model package over HTTP. It replays the
// preprocessing transforms fitted during training on each prediction request
// so callers submit raw feature values.
package serve

import (
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"mlpipeline/pkg/dataprep"
	"mlpipeline/pkg/model"
	"mlpipeline/pkg/report"
)

// DeploymentInfoSchemaVersion guards the persisted deployment info layout.
const DeploymentInfoSchemaVersion = 1

// DeploymentInfo is the deployment_info.json artifact summarizing a packaged
// model. The metric pointers are set per problem type.
type DeploymentInfo struct {
	SchemaVersion    int               `json:"schema_version"`
	ModelType        string            `json:"model_type"`
	ProblemType      model.ProblemType `json:"problem_type"`
	PerformanceGrade report.Grade      `json:"performance_grade"`
	Features         []string          `json:"features"`
	DeploymentDate   string            `json:"deployment_date"`
	APIEndpoint      string            `json:"api_endpoint"`
	HealthEndpoint   string            `json:"health_endpoint"`
	InfoEndpoint     string            `json:"model_info_endpoint"`

	Accuracy *float64 `json:"accuracy,omitempty"`
	F1       *float64 `json:"f1_score,omitempty"`
	R2       *float64 `json:"r2_score,omitempty"`
	RMSE     *float64 `json:"rmse,omitempty"`
}

// Context is the immutable state of one deployed model package. Load it once
// at startup; request handlers only read it.
type Context struct {
	Info          DeploymentInfo
	Model         model.Model
	Meta          dataprep.Metadata
	Scaler        *dataprep.StandardScaler
	Encoders      map[string]*dataprep.LabelEncoder
	TargetEncoder *dataprep.LabelEncoder
}

// Load reads a deployment directory produced by the deployment stage. The
// model, its metadata and the info record are required; the transform
// artifacts are optional and absent when preprocessing did not fit them.
func Load(dir string) (*Context, error) {
	ctx := &Context{}
	if err := readJSON(filepath.Join(dir, "deployment_info.json"), &ctx.Info); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "preprocessing_metadata.json"), &ctx.Meta); err != nil {
		return nil, err
	}

	var env model.Envelope
	if err := readGob(filepath.Join(dir, "model.gob"), &env); err != nil {
		return nil, err
	}
	m, err := env.Unwrap()
	if err != nil {
		return nil, err
	}
	ctx.Model = m

	if err := readGobOptional(filepath.Join(dir, "scaler.gob"), &ctx.Scaler); err != nil {
		return nil, err
	}
	if err := readGobOptional(filepath.Join(dir, "label_encoders.gob"), &ctx.Encoders); err != nil {
		return nil, err
	}
	if err := readGobOptional(filepath.Join(dir, "target_encoder.gob"), &ctx.TargetEncoder); err != nil {
		return nil, err
	}
	return ctx, nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

func readGobOptional(path string, v any) error {
	err := readGob(path, v)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
