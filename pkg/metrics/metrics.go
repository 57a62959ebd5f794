// Package metrics scores detector output against ground-truth labels.
package metrics

import (
	"fmt"

	"github.com/hed1ad/anombench/pkg/series"
)

// ConfusionCounts holds the four cells of a binary confusion matrix.
type ConfusionCounts struct {
	TruePositive  int
	FalsePositive int
	TrueNegative  int
	FalseNegative int
}

// Confusion tallies the confusion matrix between truth and prediction.
// Both sequences must be non-empty, the same length, and contain only
// {0, 1}.
func Confusion(truth, prediction series.Labels) (ConfusionCounts, error) {
	if len(truth) == 0 {
		return ConfusionCounts{}, fmt.Errorf("metrics: %w", series.ErrEmptySeries)
	}
	if len(truth) != len(prediction) {
		return ConfusionCounts{}, series.ErrShapeMismatch
	}
	if err := truth.Validate(); err != nil {
		return ConfusionCounts{}, err
	}
	if err := prediction.Validate(); err != nil {
		return ConfusionCounts{}, err
	}

	var c ConfusionCounts
	for i := range truth {
		switch {
		case truth[i] == 1 && prediction[i] == 1:
			c.TruePositive++
		case truth[i] == 0 && prediction[i] == 1:
			c.FalsePositive++
		case truth[i] == 0 && prediction[i] == 0:
			c.TrueNegative++
		default:
			c.FalseNegative++
		}
	}
	return c, nil
}

// Precision returns TP/(TP+FP). A detector that predicts no anomalies at
// all is well-defined: when TP+FP is zero, precision is 1.0. This matches
// the PR-curve seed point (precision=1, recall=0).
func Precision(truth, prediction series.Labels) (float64, error) {
	c, err := Confusion(truth, prediction)
	if err != nil {
		return 0, err
	}
	return c.Precision(), nil
}

// Recall returns TP/(TP+FN), or 0.0 when the denominator is zero.
func Recall(truth, prediction series.Labels) (float64, error) {
	c, err := Confusion(truth, prediction)
	if err != nil {
		return 0, err
	}
	return c.Recall(), nil
}

// F1 returns the harmonic mean of precision and recall, or 0 when both
// are zero.
func F1(truth, prediction series.Labels) (float64, error) {
	c, err := Confusion(truth, prediction)
	if err != nil {
		return 0, err
	}
	return c.F1(), nil
}

// Precision returns TP/(TP+FP) with the zero-denominator convention.
func (c ConfusionCounts) Precision() float64 {
	denom := c.TruePositive + c.FalsePositive
	if denom == 0 {
		return 1.0
	}
	return float64(c.TruePositive) / float64(denom)
}

// Recall returns TP/(TP+FN) with the zero-denominator convention.
func (c ConfusionCounts) Recall() float64 {
	denom := c.TruePositive + c.FalseNegative
	if denom == 0 {
		return 0.0
	}
	return float64(c.TruePositive) / float64(denom)
}

// F1 returns the harmonic mean of Precision and Recall.
func (c ConfusionCounts) F1() float64 {
	p := c.Precision()
	r := c.Recall()
	if p+r == 0 {
		return 0.0
	}
	return 2 * p * r / (p + r)
}
