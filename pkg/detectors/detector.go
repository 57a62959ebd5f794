// Package detectors defines the common contracts implemented by all
// anomaly detection algorithms in this repository.
package detectors

import "github.com/hed1ad/anombench/pkg/series"

// LabelingDetector produces a binary anomaly label per series point.
type LabelingDetector interface {
	// Name identifies the detector family in results and error messages.
	Name() string

	// DetectLabels runs the detector over the whole series and returns a
	// fresh label sequence aligned index-for-index with the input. The
	// input series is never mutated.
	DetectLabels(s series.Series) (series.Labels, error)
}

// ScoringDetector produces a continuous anomaly score per series point.
// Scores are in [0, 1] with higher values indicating anomalies, and are
// convertible to labels via Scores.Threshold.
type ScoringDetector interface {
	// Name identifies the detector family in results and error messages.
	Name() string

	// DetectScores runs the detector over the whole series and returns a
	// fresh score sequence aligned index-for-index with the input.
	DetectScores(s series.Series) (series.Scores, error)
}
