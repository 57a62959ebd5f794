// Package ocsvm implements anomaly detection over time-delay embeddings
// with a one-class classifier. The classifier itself is an external
// collaborator; this package owns the embedding construction, parameter
// wiring and the post-processing of outlier rows into point labels.
package ocsvm

import (
	"fmt"

	"github.com/hed1ad/anombench/pkg/series"
)

// Kernel selects the classifier kernel function.
type Kernel string

// Supported kernels.
const (
	KernelRadial     Kernel = "radial"
	KernelSigmoid    Kernel = "sigmoid"
	KernelPolynomial Kernel = "polynomial"
	KernelLinear     Kernel = "linear"
)

func (k Kernel) valid() bool {
	switch k {
	case KernelRadial, KernelSigmoid, KernelPolynomial, KernelLinear:
		return true
	}
	return false
}

// Classifier is the one-class classification collaborator. It fits a
// model on the embedding rows and classifies each row in one step.
type Classifier interface {
	// FitPredict returns one entry per row: true means the row was
	// classified as an outlier (not a member of the normal class).
	FitPredict(rows [][]float64, kernel Kernel, nu float64) ([]bool, error)
}

// runLength is the number of consecutive original-series indices marked
// anomalous for every outlier embedding row, counting the row index
// itself. The source tool wrote the run as idx:(idx+4), which reads as
// an inclusive bound there, so a flagged row at index i marks i..i+4 —
// five points, clipped at the end of the series. Kept as-is rather than
// normalized to the embedding width; pinned by TestRunMarkingBound.
const runLength = 5

// Detector embeds the series and labels runs around outlier rows.
type Detector struct {
	window     int
	nu         float64
	kernel     Kernel
	classifier Classifier
}

// Option configures a Detector.
type Option func(*Detector)

// WithWindow sets the embedding dimension.
func WithWindow(w int) Option {
	return func(d *Detector) {
		d.window = w
	}
}

// WithNu sets the outlier-fraction bound, in (0, 1].
func WithNu(nu float64) Option {
	return func(d *Detector) {
		d.nu = nu
	}
}

// WithKernel sets the classifier kernel.
func WithKernel(k Kernel) Option {
	return func(d *Detector) {
		d.kernel = k
	}
}

// New creates a detector backed by the given one-class classifier.
func New(classifier Classifier, opts ...Option) *Detector {
	d := &Detector{
		window:     5,
		nu:         0.1,
		kernel:     KernelRadial,
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements detectors.LabelingDetector.
func (d *Detector) Name() string {
	return "ocsvm"
}

// Embed builds the time-delay embedding matrix: row j holds
// values[j..j+window-1], for j = 0..len(values)-window.
func Embed(values []float64, window int) [][]float64 {
	if window <= 0 || window > len(values) {
		return nil
	}
	rows := make([][]float64, 0, len(values)-window+1)
	for j := 0; j+window <= len(values); j++ {
		row := make([]float64, window)
		copy(row, values[j:j+window])
		rows = append(rows, row)
	}
	return rows
}

// DetectLabels embeds the series, classifies every embedding row, and
// marks a run of runLength original indices starting at each outlier
// row's index.
func (d *Detector) DetectLabels(s series.Series) (series.Labels, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("ocsvm: %w", series.ErrEmptySeries)
	}
	if d.window <= 0 || d.window > len(s) {
		return nil, fmt.Errorf("ocsvm: window %d for series of length %d: %w",
			d.window, len(s), series.ErrInvalidParameter)
	}
	if d.nu <= 0 || d.nu > 1 {
		return nil, fmt.Errorf("ocsvm: nu %v: %w", d.nu, series.ErrInvalidParameter)
	}
	if !d.kernel.valid() {
		return nil, fmt.Errorf("ocsvm: kernel %q: %w", d.kernel, series.ErrInvalidParameter)
	}

	rows := Embed(s.Values(), d.window)

	outliers, err := d.classifier.FitPredict(rows, d.kernel, d.nu)
	if err != nil {
		return nil, fmt.Errorf("ocsvm: fit window=%d nu=%v kernel=%s: %w",
			d.window, d.nu, d.kernel, err)
	}
	if len(outliers) != len(rows) {
		return nil, fmt.Errorf("ocsvm: classifier returned %d results for %d rows: %w",
			len(outliers), len(rows), series.ErrShapeMismatch)
	}

	labels := make(series.Labels, len(s))
	for idx, out := range outliers {
		if !out {
			continue
		}
		for i := idx; i < idx+runLength && i < len(s); i++ {
			labels[i] = 1
		}
	}
	return labels, nil
}
