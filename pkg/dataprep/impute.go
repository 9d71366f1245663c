package dataprep

import (
	"strconv"

	"mlpipeline/pkg/dataset"
	"mlpipeline/pkg/stats"
)

// ImputeNumericMean fills missing cells of a numeric column with the mean of
// its non-missing values. The mean is computed over the full pre-split
// column.
func ImputeNumericMean(col *dataset.Column) {
	var nums []float64
	for _, v := range col.Values {
		if dataset.IsMissing(v) {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			nums = append(nums, f)
		}
	}
	mean := stats.Mean(nums)
	filled := strconv.FormatFloat(mean, 'g', -1, 64)
	for i, v := range col.Values {
		if dataset.IsMissing(v) {
			col.Values[i] = filled
		}
	}
}

// ImputeCategoricalMode fills missing cells of a categorical column with the
// most frequent value, or the literal "unknown" when the column has no
// non-missing values at all.
func ImputeCategoricalMode(col *dataset.Column) {
	counts := make(map[string]int)
	for _, v := range col.Values {
		if !dataset.IsMissing(v) {
			counts[v]++
		}
	}
	mode := "unknown"
	best := 0
	for _, v := range col.Values {
		if dataset.IsMissing(v) {
			continue
		}
		if counts[v] > best {
			best = counts[v]
			mode = v
		}
	}
	for i, v := range col.Values {
		if dataset.IsMissing(v) {
			col.Values[i] = mode
		}
	}
}
