package model

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Algorithm is the closed set of configurable algorithm identifiers.
type Algorithm int

const (
	AlgoRandomForest Algorithm = iota
	AlgoDecisionTree
	AlgoLogisticRegression
	AlgoLinearRegression
)

func (a Algorithm) String() string {
	switch a {
	case AlgoDecisionTree:
		return "decision_tree"
	case AlgoLogisticRegression:
		return "logistic_regression"
	case AlgoLinearRegression:
		return "linear_regression"
	default:
		return "random_forest"
	}
}

// ParseAlgorithm maps a configured identifier to the enum.
func ParseAlgorithm(id string) (Algorithm, bool) {
	switch id {
	case "random_forest":
		return AlgoRandomForest, true
	case "decision_tree":
		return AlgoDecisionTree, true
	case "logistic_regression":
		return AlgoLogisticRegression, true
	case "linear_regression":
		return AlgoLinearRegression, true
	default:
		return AlgoRandomForest, false
	}
}

// Select maps (problem type, algorithm id, parameters) to a trainable
// estimator. An unknown algorithm id, or one that does not apply to the
// problem type, falls back to the default random forest; the fallback is
// deliberate and logged rather than an error. Invalid hyperparameters are a
// construction error.
func Select(task ProblemType, id string, params map[string]float64, log zerolog.Logger) (Model, error) {
	algo, known := ParseAlgorithm(id)
	if !known {
		log.Warn().Str("algorithm", id).Msg("unknown algorithm, falling back to random_forest")
		algo = AlgoRandomForest
	}

	switch task {
	case Classification:
		switch algo {
		case AlgoDecisionTree:
			return buildTree(task, params)
		case AlgoLogisticRegression:
			return buildLogistic(params)
		case AlgoLinearRegression:
			log.Warn().Str("algorithm", id).Msg("algorithm does not apply to classification, falling back to random_forest")
			return buildForest(task, params)
		default:
			return buildForest(task, params)
		}
	default: // Regression
		switch algo {
		case AlgoDecisionTree:
			return buildTree(task, params)
		case AlgoLinearRegression:
			return buildLinear(params)
		case AlgoLogisticRegression:
			log.Warn().Str("algorithm", id).Msg("algorithm does not apply to regression, falling back to random_forest")
			return buildForest(task, params)
		default:
			return buildForest(task, params)
		}
	}
}

// Name reports the estimator's class name for metadata records.
func Name(m Model) string {
	switch v := m.(type) {
	case *RandomForest:
		if v.Task == Regression {
			return "RandomForestRegressor"
		}
		return "RandomForestClassifier"
	case *DecisionTree:
		if v.Task == Regression {
			return "DecisionTreeRegressor"
		}
		return "DecisionTreeClassifier"
	case *LogisticRegression:
		return "LogisticRegression"
	case *LinearRegression:
		return "LinearRegression"
	default:
		return "Model"
	}
}

func buildForest(task ProblemType, params map[string]float64) (Model, error) {
	if err := checkParams(params, "n_estimators", "max_depth", "min_samples_split", "max_features", "random_state"); err != nil {
		return nil, err
	}
	f := NewRandomForest(task)
	if v, ok := params["n_estimators"]; ok {
		if v < 1 {
			return nil, errors.Wrapf(ErrModel, "n_estimators %g must be at least 1", v)
		}
		f.NEstimators = int(v)
	}
	if v, ok := params["max_depth"]; ok {
		f.MaxDepth = int(v)
	}
	if v, ok := params["min_samples_split"]; ok {
		f.MinSamplesSplit = int(v)
	}
	if v, ok := params["max_features"]; ok {
		f.MaxFeatures = int(v)
	}
	if v, ok := params["random_state"]; ok {
		f.RandomState = int64(v)
	}
	return f, nil
}

func buildTree(task ProblemType, params map[string]float64) (Model, error) {
	if err := checkParams(params, "max_depth", "min_samples_split", "max_features", "random_state"); err != nil {
		return nil, err
	}
	t := NewDecisionTree(task)
	if v, ok := params["max_depth"]; ok {
		t.MaxDepth = int(v)
	}
	if v, ok := params["min_samples_split"]; ok {
		t.MinSamplesSplit = int(v)
	}
	if v, ok := params["max_features"]; ok {
		t.MaxFeatures = int(v)
	}
	if v, ok := params["random_state"]; ok {
		t.RandomState = int64(v)
	}
	return t, nil
}

func buildLogistic(params map[string]float64) (Model, error) {
	if err := checkParams(params, "learning_rate", "epochs"); err != nil {
		return nil, err
	}
	m := NewLogisticRegression()
	if v, ok := params["learning_rate"]; ok {
		m.Lr = v
	}
	if v, ok := params["epochs"]; ok {
		m.Epochs = int(v)
	}
	if m.Lr <= 0 || m.Epochs <= 0 {
		return nil, errors.Wrapf(ErrModel, "learning_rate %g and epochs %d must be positive", m.Lr, m.Epochs)
	}
	return m, nil
}

func buildLinear(params map[string]float64) (Model, error) {
	if err := checkParams(params, "learning_rate", "epochs"); err != nil {
		return nil, err
	}
	m := NewLinearRegression()
	if v, ok := params["learning_rate"]; ok {
		m.Lr = v
	}
	if v, ok := params["epochs"]; ok {
		m.Epochs = int(v)
	}
	if m.Lr <= 0 || m.Epochs <= 0 {
		return nil, errors.Wrapf(ErrModel, "learning_rate %g and epochs %d must be positive", m.Lr, m.Epochs)
	}
	return m, nil
}

func checkParams(params map[string]float64, allowed ...string) error {
	ok := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		ok[k] = struct{}{}
	}
	var bad []string
	for k := range params {
		if _, fine := ok[k]; !fine {
			bad = append(bad, k)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return errors.Wrapf(ErrModel, "unsupported hyperparameters %v", bad)
	}
	return nil
}
