package model

// MetadataSchemaVersion guards the persisted model metadata layout.
const MetadataSchemaVersion = 1

// Metadata describes a trained estimator. Features is the exact ordered
// column set the estimator was fit on; prediction inputs must be arranged in
// this order.
type Metadata struct {
	SchemaVersion int                `json:"schema_version"`
	ModelType     string             `json:"model_type"`
	ProblemType   ProblemType        `json:"problem_type"`
	Algorithm     string             `json:"algorithm"`
	Parameters    map[string]float64 `json:"parameters"`
	Features      []string           `json:"features"`
	NFeatures     int                `json:"n_features"`
	NSamplesTrain int                `json:"n_samples_train"`
	NSamplesTest  int                `json:"n_samples_test"`
}
