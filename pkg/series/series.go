// Package series defines the univariate time-series data model shared by
// all detectors and evaluation code.
package series

import "errors"

// Sentinel errors shared across the harness.
var (
	// ErrEmptySeries is returned when a detector or metric receives
	// zero-length input.
	ErrEmptySeries = errors.New("empty series")

	// ErrShapeMismatch is returned when two label sequences of unequal
	// length are compared.
	ErrShapeMismatch = errors.New("label sequences have different lengths")

	// ErrInvalidLabel is returned when a label sequence contains a value
	// outside {0, 1}.
	ErrInvalidLabel = errors.New("label value outside {0, 1}")

	// ErrInvalidParameter is returned for out-of-range hyperparameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Point is one observation of a univariate series.
type Point struct {
	Timestamp float64
	Value     float64
}

// Series is an ordered sequence of points, ascending by timestamp.
// Callers must supply ordered input; the harness never re-sorts.
// A Series is read-only once handed to a detector.
type Series []Point

// Values returns a fresh slice of the series values, index-aligned with
// the series itself.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Timestamps returns a fresh slice of the series timestamps.
func (s Series) Timestamps() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Timestamp
	}
	return out
}

// Labels is a {0,1} anomaly-label sequence aligned index-for-index with a
// Series: label[i] refers to series[i], never to a timestamp lookup.
type Labels []int

// Validate checks that every label is 0 or 1.
func (l Labels) Validate() error {
	for _, v := range l {
		if v != 0 && v != 1 {
			return ErrInvalidLabel
		}
	}
	return nil
}

// Positives returns the number of 1-labels.
func (l Labels) Positives() int {
	n := 0
	for _, v := range l {
		n += v
	}
	return n
}

// Scores is a per-point anomaly-score sequence aligned with a Series.
// Higher means more anomalous.
type Scores []float64

// Threshold converts scores to labels: 1 where score > t, else 0.
func (s Scores) Threshold(t float64) Labels {
	labels := make(Labels, len(s))
	for i, v := range s {
		if v > t {
			labels[i] = 1
		}
	}
	return labels
}
