package model

import (
	"math"
	"strconv"
)

// Accuracy is the fraction of exact label matches.
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix returns the sorted label set and the matrix of counts,
// rows indexed by true label, columns by predicted label.
func ConfusionMatrix(yTrue, yPred []float64) ([]float64, [][]int) {
	all := make([]float64, 0, len(yTrue)*2)
	all = append(all, yTrue...)
	all = append(all, yPred...)
	labels := sortedUnique(all)
	index := make(map[float64]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	cm := make([][]int, len(labels))
	for i := range cm {
		cm[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		cm[index[yTrue[i]]][index[yPred[i]]]++
	}
	return labels, cm
}

// ClassMetrics is the per-class row of a classification report.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// ClassificationReport computes per-class precision, recall, F1 and support,
// keyed by the formatted class label. Undefined ratios report as zero.
func ClassificationReport(yTrue, yPred []float64) map[string]ClassMetrics {
	labels, cm := ConfusionMatrix(yTrue, yPred)
	report := make(map[string]ClassMetrics, len(labels))
	for i, label := range labels {
		tp := cm[i][i]
		support, predicted := 0, 0
		for j := range labels {
			support += cm[i][j]
			predicted += cm[j][i]
		}
		m := ClassMetrics{Support: support}
		if predicted > 0 {
			m.Precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			m.Recall = float64(tp) / float64(support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report[strconv.FormatFloat(label, 'g', -1, 64)] = m
	}
	return report
}

// WeightedPRF1 averages per-class precision, recall and F1, weighted by
// class support.
func WeightedPRF1(yTrue, yPred []float64) (prec, rec, f1 float64) {
	report := ClassificationReport(yTrue, yPred)
	total := 0
	for _, m := range report {
		total += m.Support
	}
	if total == 0 {
		return 0, 0, 0
	}
	for _, m := range report {
		w := float64(m.Support) / float64(total)
		prec += w * m.Precision
		rec += w * m.Recall
		f1 += w * m.F1
	}
	return prec, rec, f1
}

// MSE is the mean squared error.
func MSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / float64(len(yTrue))
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	s := 0.0
	for i := range yTrue {
		s += math.Abs(yPred[i] - yTrue[i])
	}
	return s / float64(len(yTrue))
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// R2 is the coefficient of determination.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range yTrue {
		mean += v
	}
	mean /= float64(len(yTrue))
	ssTot, ssRes := 0.0, 0.0
	for i := range yTrue {
		d := yTrue[i] - mean
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
