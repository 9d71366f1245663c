package model

import (
	"encoding/json"

	"github.com/pkg/errors"

	"mlpipeline/pkg/dataset"
)

// ProblemType is the closed set of supported learning tasks.
type ProblemType int

const (
	Classification ProblemType = iota
	Regression
)

func (p ProblemType) String() string {
	if p == Regression {
		return "regression"
	}
	return "classification"
}

// MarshalJSON encodes the problem type as its lowercase name.
func (p ProblemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a lowercase problem-type name.
func (p *ProblemType) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	switch s {
	case "classification":
		*p = Classification
	case "regression":
		*p = Regression
	default:
		return errors.Errorf("unknown problem type %q", s)
	}
	return nil
}

// DetectProblemType infers classification or regression from the target
// column. The result is a pure function of the column:
//
//  1. floating-point storage is always regression
//  2. at most 10 distinct values is classification
//  3. more than 50 distinct values is regression
//  4. in between, a unique-to-sample ratio above 0.5 is regression,
//     otherwise classification
//
// Any storage type not covered above defaults to classification. A target
// with a single distinct value therefore comes out as classification and is
// left for the split to reject.
func DetectProblemType(target *dataset.Column) ProblemType {
	if target.DType == dataset.Float {
		return Regression
	}
	switch target.DType {
	case dataset.Int, dataset.String:
		unique := target.UniqueCount()
		switch {
		case unique <= 10:
			return Classification
		case unique > 50:
			return Regression
		default:
			ratio := float64(unique) / float64(len(target.Values))
			if ratio > 0.5 {
				return Regression
			}
			return Classification
		}
	}
	return Classification
}
