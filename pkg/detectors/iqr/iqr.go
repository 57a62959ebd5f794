// Package iqr implements interquartile-range outlier thresholding.
package iqr

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/hed1ad/anombench/pkg/series"
)

// Detector flags points outside the Tukey fences [Q1-k*IQR, Q3+k*IQR].
// Quartiles are computed over the entire series: this is a batch detector,
// not a rolling-window one.
type Detector struct {
	k float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithMultiplier sets the IQR multiplier k. The default 1.5 is the
// standard Tukey fence.
func WithMultiplier(k float64) Option {
	return func(d *Detector) {
		d.k = k
	}
}

// New creates an IQR detector with the given options.
func New(opts ...Option) *Detector {
	d := &Detector{k: 1.5}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements detectors.LabelingDetector.
func (d *Detector) Name() string {
	return "iqr"
}

// Multiplier returns the configured IQR multiplier.
func (d *Detector) Multiplier() float64 {
	return d.k
}

// DetectLabels flags every value below Q1-k*IQR or above Q3+k*IQR.
func (d *Detector) DetectLabels(s series.Series) (series.Labels, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("iqr: %w", series.ErrEmptySeries)
	}
	if d.k <= 0 {
		return nil, fmt.Errorf("iqr: multiplier %v: %w", d.k, series.ErrInvalidParameter)
	}

	sorted := s.Values()
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	spread := q3 - q1

	lower := q1 - d.k*spread
	upper := q3 + d.k*spread

	labels := make(series.Labels, len(s))
	for i, p := range s {
		if p.Value < lower || p.Value > upper {
			labels[i] = 1
		}
	}
	return labels, nil
}
