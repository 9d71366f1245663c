package stage

// ByID maps a stage identifier to its implementation. The identifiers are
// the stage names used in result records and artifact directories.
func ByID(id string) (Stage, bool) {
	switch id {
	case "data_ingestion":
		return Ingestion{}, true
	case "preprocessing":
		return Preprocessing{}, true
	case "model_training":
		return Training{}, true
	case "evaluation":
		return Evaluation{}, true
	case "deployment":
		return Deployment{}, true
	default:
		return nil, false
	}
}

// IDs lists the stage identifiers in pipeline order.
func IDs() []string {
	return []string{"data_ingestion", "preprocessing", "model_training", "evaluation", "deployment"}
}
