package stage

import (
	"fmt"
	"strings"
	"time"

	"mlpipeline/pkg/artifact"
	"mlpipeline/pkg/model"
	"mlpipeline/pkg/report"
	"mlpipeline/pkg/serve"
)

// Deployment collects the trained model and its fitted transforms into a
// self-contained package that the model server loads directly.
type Deployment struct{}

func (Deployment) Name() string { return "deployment" }

func (Deployment) Requires(store *artifact.Store) []string {
	missing := store.Missing(artifact.DirTraining, "trained_model.gob", "model_metadata.json")
	missing = append(missing, store.Missing(artifact.DirPreprocessing, "preprocessing_metadata.json")...)
	missing = append(missing, store.Missing(artifact.DirEvaluation, "evaluation_results.json")...)
	return missing
}

func (Deployment) Execute(ctx *Context) (map[string]any, []string, error) {
	var meta model.Metadata
	if err := ctx.Store.ReadJSON(artifact.DirTraining, "model_metadata.json", &meta); err != nil {
		return nil, nil, err
	}
	var ev report.Evaluation
	if err := ctx.Store.ReadJSON(artifact.DirEvaluation, "evaluation_results.json", &ev); err != nil {
		return nil, nil, err
	}
	ctx.Log.Info().
		Str("model", meta.ModelType).
		Stringer("grade", ev.Grade).
		Msg("packaging model for deployment")

	var artifacts []string
	modelPath, err := ctx.Store.Copy(artifact.DirTraining, "trained_model.gob", artifact.DirDeployment, "model.gob")
	if err != nil {
		return nil, nil, err
	}
	artifacts = append(artifacts, modelPath)
	metaPath, err := ctx.Store.Copy(artifact.DirPreprocessing, "preprocessing_metadata.json", artifact.DirDeployment, "preprocessing_metadata.json")
	if err != nil {
		return nil, nil, err
	}
	artifacts = append(artifacts, metaPath)

	// Fitted transforms are optional; copy whichever preprocessing produced.
	for _, name := range []string{"scaler.gob", "label_encoders.gob", "target_encoder.gob"} {
		if !ctx.Store.Exists(artifact.DirPreprocessing, name) {
			continue
		}
		path, err := ctx.Store.Copy(artifact.DirPreprocessing, name, artifact.DirDeployment, name)
		if err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
	}

	info := buildInfo(&meta, &ev)
	docs := deploymentDocs(&meta, &ev)
	docsPath, err := writeText(ctx.Store, artifact.DirDeployment, "DEPLOYMENT.md", docs)
	if err != nil {
		return nil, nil, err
	}
	artifacts = append(artifacts, docsPath)

	// deployment_info.json last: the server treats its presence as a
	// complete package.
	infoPath, err := ctx.Store.WriteJSON(artifact.DirDeployment, "deployment_info.json", info)
	if err != nil {
		return nil, nil, err
	}
	artifacts = append(artifacts, infoPath)

	outputs := map[string]any{
		"model_type":        meta.ModelType,
		"problem_type":      meta.ProblemType.String(),
		"performance_grade": ev.Grade.String(),
		"deployment_dir":    ctx.Store.Path(artifact.DirDeployment, ""),
	}
	return outputs, artifacts, nil
}

func buildInfo(meta *model.Metadata, ev *report.Evaluation) serve.DeploymentInfo {
	info := serve.DeploymentInfo{
		SchemaVersion:    serve.DeploymentInfoSchemaVersion,
		ModelType:        meta.ModelType,
		ProblemType:      meta.ProblemType,
		PerformanceGrade: ev.Grade,
		Features:         meta.Features,
		DeploymentDate:   time.Now().Format(time.RFC3339),
		APIEndpoint:      "/predict",
		HealthEndpoint:   "/healthz",
		InfoEndpoint:     "/info",
	}
	if c := ev.Classification; c != nil {
		info.Accuracy = &c.Accuracy
		info.F1 = &c.F1
	}
	if r := ev.Regression; r != nil {
		info.R2 = &r.R2
		info.RMSE = &r.RMSE
	}
	return info
}

func deploymentDocs(meta *model.Metadata, ev *report.Evaluation) string {
	var b strings.Builder
	b.WriteString("# Model Deployment Guide\n\n")
	b.WriteString("## Model Information\n")
	fmt.Fprintf(&b, "- **Model Type**: %s\n", meta.ModelType)
	fmt.Fprintf(&b, "- **Problem Type**: %s\n", meta.ProblemType)
	fmt.Fprintf(&b, "- **Performance Grade**: %s\n", ev.Grade)
	fmt.Fprintf(&b, "- **Number of Features**: %d\n\n", meta.NFeatures)

	b.WriteString("## Performance Metrics\n")
	if c := ev.Classification; c != nil {
		fmt.Fprintf(&b, "- **Accuracy**: %.4f\n", c.Accuracy)
		fmt.Fprintf(&b, "- **F1-Score**: %.4f\n", c.F1)
		fmt.Fprintf(&b, "- **Precision**: %.4f\n", c.Precision)
		fmt.Fprintf(&b, "- **Recall**: %.4f\n", c.Recall)
	}
	if r := ev.Regression; r != nil {
		fmt.Fprintf(&b, "- **R² Score**: %.4f\n", r.R2)
		fmt.Fprintf(&b, "- **RMSE**: %.4f\n", r.RMSE)
		fmt.Fprintf(&b, "- **MAE**: %.4f\n", r.MAE)
	}

	b.WriteString(`
## Serving

Start the model server against this directory:

` + "```bash\nmodelserver --dir <deployment_dir> --addr :5000\n```" + `

## API Endpoints

- ` + "`GET /healthz`" + ` reports service health.
- ` + "`GET /info`" + ` returns the deployment info record.
- ` + "`POST /predict`" + ` accepts a JSON body of the form:

` + "```json\n{\n  \"features\": {\n    \"feature_1\": 1.0,\n    \"feature_2\": 2.0\n  }\n}\n```" + `

All trained features must be present; categorical features take their
original string categories and are encoded server-side.

## Required Features
`)
	for i, f := range meta.Features {
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, f)
	}
	b.WriteString(`
## Monitoring and Maintenance
- Monitor the ` + "`/healthz`" + ` endpoint for service status
- Log predictions for model drift detection
- Retrain the model periodically with new data
`)
	return b.String()
}
