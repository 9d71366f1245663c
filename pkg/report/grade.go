// Package report grades model performance, renders the evaluation report
// and draws the evaluation plots.
package report

import (
	"encoding/json"

	"github.com/pkg/errors"

	"mlpipeline/pkg/model"
)

// Grade is the categorical performance summary, ordered worst to best.
type Grade int

const (
	Poor Grade = iota
	Fair
	Good
	Excellent
)

func (g Grade) String() string {
	switch g {
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Fair:
		return "Fair"
	default:
		return "Poor"
	}
}

// MarshalJSON encodes the grade as its name.
func (g Grade) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON decodes a grade name.
func (g *Grade) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	switch s {
	case "Excellent":
		*g = Excellent
	case "Good":
		*g = Good
	case "Fair":
		*g = Fair
	case "Poor":
		*g = Poor
	default:
		return errors.Errorf("unknown grade %q", s)
	}
	return nil
}

// GradeFor maps the primary metric to a grade with strict thresholds, so
// boundary values resolve to the lower grade. Classification grades on
// accuracy, regression on R².
func GradeFor(task model.ProblemType, metric float64) Grade {
	if task == model.Classification {
		switch {
		case metric > 0.9:
			return Excellent
		case metric > 0.8:
			return Good
		case metric > 0.7:
			return Fair
		default:
			return Poor
		}
	}
	switch {
	case metric > 0.9:
		return Excellent
	case metric > 0.8:
		return Good
	case metric > 0.6:
		return Fair
	default:
		return Poor
	}
}
