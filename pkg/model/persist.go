package model

import (
	"encoding/gob"

	"github.com/pkg/errors"
)

func init() {
	gob.Register(&RandomForest{})
	gob.Register(&DecisionTree{})
	gob.Register(&LogisticRegression{})
	gob.Register(&LinearRegression{})
}

// Envelope wraps a trained estimator so the concrete type survives a gob
// round trip behind the Model interface.
type Envelope struct {
	Model Model
}

// Unwrap returns the carried estimator, or an error when the artifact
// decoded to nothing usable.
func (e *Envelope) Unwrap() (Model, error) {
	if e.Model == nil {
		return nil, errors.Wrap(ErrModel, "persisted model is empty")
	}
	return e.Model, nil
}
