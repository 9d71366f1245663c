package report

import (
	"fmt"
	"strings"

	"mlpipeline/pkg/model"
)

// Markdown renders the human-readable evaluation report.
func Markdown(ev *Evaluation, meta *model.Metadata) string {
	var b strings.Builder
	b.WriteString("# Model Evaluation Report\n\n")
	b.WriteString("## Model Information\n")
	fmt.Fprintf(&b, "- **Model Type**: %s\n", meta.ModelType)
	fmt.Fprintf(&b, "- **Problem Type**: %s\n", ev.ProblemType)
	fmt.Fprintf(&b, "- **Algorithm**: %s\n", meta.Algorithm)
	fmt.Fprintf(&b, "- **Number of Features**: %d\n", meta.NFeatures)
	fmt.Fprintf(&b, "- **Training Samples**: %d\n", meta.NSamplesTrain)
	fmt.Fprintf(&b, "- **Test Samples**: %d\n\n", ev.NTestSamples)

	b.WriteString("## Performance Summary\n")
	fmt.Fprintf(&b, "- **Overall Grade**: %s\n\n", ev.Grade)

	if c := ev.Classification; c != nil {
		b.WriteString("## Classification Metrics\n")
		fmt.Fprintf(&b, "- **Accuracy**: %.4f\n", c.Accuracy)
		fmt.Fprintf(&b, "- **Precision**: %.4f\n", c.Precision)
		fmt.Fprintf(&b, "- **Recall**: %.4f\n", c.Recall)
		fmt.Fprintf(&b, "- **F1-Score**: %.4f\n\n", c.F1)
	}
	if r := ev.Regression; r != nil {
		b.WriteString("## Regression Metrics\n")
		fmt.Fprintf(&b, "- **MSE**: %.4f\n", r.MSE)
		fmt.Fprintf(&b, "- **MAE**: %.4f\n", r.MAE)
		fmt.Fprintf(&b, "- **RMSE**: %.4f\n", r.RMSE)
		fmt.Fprintf(&b, "- **R² Score**: %.4f\n\n", r.R2)
		fmt.Fprintf(&b, "The model explains %.1f%% of the variance in the target variable.\n\n", r.R2*100)
	}

	if len(ev.FeatureImportance) > 0 {
		b.WriteString("## Feature Importance\n")
		b.WriteString("Top 5 most important features:\n")
		for i, fw := range ev.FeatureImportance {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "%d. **%s**: %.4f\n", i+1, fw.Feature, fw.Importance)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Files Generated\n")
	b.WriteString("- `detailed_predictions.csv`: Individual predictions for each test sample\n")
	b.WriteString("- `evaluation_results.json`: Complete evaluation metrics in JSON format\n")
	if ev.ProblemType == model.Classification {
		b.WriteString("- `confusion_matrix.png`: Visualization of model performance\n")
	} else {
		b.WriteString("- `regression_plots.png`: Visualization of model performance\n")
	}
	if len(ev.FeatureImportance) > 0 {
		b.WriteString("- `feature_importance.png`: Feature importance visualization\n")
	}
	return b.String()
}
