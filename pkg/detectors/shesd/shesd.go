// Package shesd implements the seasonal-hybrid extreme studentized
// deviate detector. The statistical search itself is a collaborator; the
// detector builds the (timestamp, value) input, invokes it, and maps the
// returned timestamps back onto the label sequence.
package shesd

import (
	"fmt"

	"github.com/hed1ad/anombench/pkg/series"
)

// Direction restricts which side of the distribution is tested.
type Direction string

// Supported deviation directions.
const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionBoth     Direction = "both"
)

func (d Direction) valid() bool {
	switch d {
	case DirectionPositive, DirectionNegative, DirectionBoth:
		return true
	}
	return false
}

// Tester is the seasonal-hybrid ESD collaborator. It consumes the full
// series and returns the timestamps it considers anomalous. The result
// may be reordered or a subset; no index alignment is promised.
type Tester interface {
	Detect(s series.Series, maxAnomalyFraction float64, direction Direction) ([]float64, error)
}

// Detector wraps a Tester and converts its timestamp output to labels.
type Detector struct {
	maxFraction float64
	direction   Direction
	tester      Tester
}

// Option configures a Detector.
type Option func(*Detector)

// WithMaxAnomalyFraction bounds the fraction of points flaggable.
func WithMaxAnomalyFraction(f float64) Option {
	return func(d *Detector) {
		d.maxFraction = f
	}
}

// WithDirection restricts the deviation direction tested.
func WithDirection(dir Direction) Option {
	return func(d *Detector) {
		d.direction = dir
	}
}

// New creates a detector backed by the given tester. A nil tester uses
// the built-in generalized ESD implementation.
func New(tester Tester, opts ...Option) *Detector {
	d := &Detector{
		maxFraction: 0.05,
		direction:   DirectionBoth,
		tester:      tester,
	}
	if d.tester == nil {
		d.tester = NewESDTester()
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements detectors.LabelingDetector.
func (d *Detector) Name() string {
	return "shesd"
}

// DetectLabels invokes the tester and maps its anomalous timestamps back
// onto the series by exact timestamp match, not by index. The tester may
// reorder or subset its result, so positional mapping would be wrong here.
func (d *Detector) DetectLabels(s series.Series) (series.Labels, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("shesd: %w", series.ErrEmptySeries)
	}
	if d.maxFraction <= 0 || d.maxFraction > 1 {
		return nil, fmt.Errorf("shesd: max anomaly fraction %v: %w",
			d.maxFraction, series.ErrInvalidParameter)
	}
	if !d.direction.valid() {
		return nil, fmt.Errorf("shesd: direction %q: %w", d.direction, series.ErrInvalidParameter)
	}

	anomalous, err := d.tester.Detect(s, d.maxFraction, d.direction)
	if err != nil {
		return nil, fmt.Errorf("shesd: detect maxFraction=%v direction=%s: %w",
			d.maxFraction, d.direction, err)
	}

	flagged := make(map[float64]bool, len(anomalous))
	for _, ts := range anomalous {
		flagged[ts] = true
	}

	labels := make(series.Labels, len(s))
	for i, p := range s {
		if flagged[p.Timestamp] {
			labels[i] = 1
		}
	}
	return labels, nil
}
