// Package iforest scores series points with an isolation forest. Forest
// construction and path-length scoring are delegated to the go-iforest
// library; this package owns the single-column input construction, score
// clamping, and thresholding into labels.
package iforest

import (
	"fmt"
	"math"

	goiforest "github.com/narumiruna/go-iforest/pkg/iforest"

	"github.com/hed1ad/anombench/pkg/series"
)

// Detector fits a fresh forest on every call and scores each point in
// [0, 1], higher meaning more anomalous.
type Detector struct {
	trees      int
	sampleSize int
	threshold  float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithTrees sets the number of isolation trees.
func WithTrees(n int) Option {
	return func(d *Detector) {
		d.trees = n
	}
}

// WithSampleSize sets the subsample size for each tree.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		d.sampleSize = n
	}
}

// WithThreshold sets the score cutoff used by DetectLabels.
func WithThreshold(t float64) Option {
	return func(d *Detector) {
		d.threshold = t
	}
}

// New creates an isolation-forest detector with the given options.
func New(opts ...Option) *Detector {
	d := &Detector{
		trees:      100,
		sampleSize: 256,
		threshold:  0.5,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements detectors.ScoringDetector and LabelingDetector.
func (d *Detector) Name() string {
	return "iforest"
}

// Threshold returns the score cutoff used by DetectLabels.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// DetectScores fits a forest on the value column and returns per-point
// anomaly scores clamped to [0, 1].
func (d *Detector) DetectScores(s series.Series) (series.Scores, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("iforest: %w", series.ErrEmptySeries)
	}
	if d.trees <= 0 || d.sampleSize <= 0 {
		return nil, fmt.Errorf("iforest: trees=%d sampleSize=%d: %w",
			d.trees, d.sampleSize, series.ErrInvalidParameter)
	}

	sampleSize := d.sampleSize
	if sampleSize > len(s) {
		sampleSize = len(s)
	}

	// Single-column input: one feature per point, the raw value.
	rows := make([][]float64, len(s))
	for i, p := range s {
		rows[i] = []float64{p.Value}
	}

	forest := goiforest.NewWithOptions(goiforest.Options{
		DetectionType: goiforest.DetectionTypeThreshold,
		Threshold:     d.threshold,
		NumTrees:      d.trees,
		SampleSize:    sampleSize,
	})
	forest.Fit(rows)

	raw := forest.Score(rows)
	if len(raw) != len(s) {
		return nil, fmt.Errorf("iforest: trees=%d sampleSize=%d: scored %d of %d points: %w",
			d.trees, d.sampleSize, len(raw), len(s), series.ErrShapeMismatch)
	}

	scores := make(series.Scores, len(raw))
	for i, v := range raw {
		scores[i] = clamp01(v)
	}
	return scores, nil
}

// DetectLabels thresholds the scores at the configured cutoff,
// score > threshold meaning anomalous.
func (d *Detector) DetectLabels(s series.Series) (series.Labels, error) {
	scores, err := d.DetectScores(s)
	if err != nil {
		return nil, err
	}
	return scores.Threshold(d.threshold), nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
