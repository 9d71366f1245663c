package dataprep

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// LabelEncoder maps string categories to consecutive integer codes, in
// lexicographic class order. Fit once on training data, then replayed
// identically at inference time.
type LabelEncoder struct {
	Column  string
	Classes []string

	index map[string]int
}

// NewLabelEncoder returns an unfitted encoder bound to a column name.
func NewLabelEncoder(column string) *LabelEncoder {
	return &LabelEncoder{Column: column}
}

// Fit learns the sorted class set of values.
func (e *LabelEncoder) Fit(values []string) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	e.Classes = make([]string, 0, len(seen))
	for v := range seen {
		e.Classes = append(e.Classes, v)
	}
	sort.Strings(e.Classes)
	e.buildIndex()
}

// Transform encodes values with the fitted mapping. A value never seen
// during Fit is a transform mismatch.
func (e *LabelEncoder) Transform(values []string) ([]float64, error) {
	if e.index == nil {
		e.buildIndex()
	}
	out := make([]float64, len(values))
	for i, v := range values {
		code, ok := e.index[v]
		if !ok {
			return nil, errors.Wrapf(ErrTransform, "column %s: unseen category %q", e.Column, v)
		}
		out[i] = float64(code)
	}
	return out, nil
}

// FitTransform fits the encoder and encodes values in one step.
func (e *LabelEncoder) FitTransform(values []string) []float64 {
	e.Fit(values)
	out, _ := e.Transform(values)
	return out
}

// InverseTransform maps an integer code back to its category.
func (e *LabelEncoder) InverseTransform(code float64) (string, error) {
	i := int(code)
	if i < 0 || i >= len(e.Classes) {
		return "", errors.Wrapf(ErrTransform, "column %s: code %s out of range", e.Column, strconv.FormatFloat(code, 'g', -1, 64))
	}
	return e.Classes[i], nil
}

func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.index[c] = i
	}
}
