package eval

import (
	"errors"
	"fmt"

	"github.com/hed1ad/anombench/pkg/metrics"
	"github.com/hed1ad/anombench/pkg/series"
)

// ErrNonConvergent is returned when a PR-curve sweep exhausts its
// iteration bound before recall reaches 1.0. The naive threshold sweep
// has no convergence guarantee in general, most obviously when the
// ground truth contains no positives and recall is pinned at zero.
var ErrNonConvergent = errors.New("pr sweep did not reach full recall")

// PRPoint is one precision/recall pair on the curve.
type PRPoint struct {
	Precision float64
	Recall    float64
}

// ThresholdRunner re-runs a detector at one decision threshold and
// returns its label sequence. Used for detectors whose behavior is
// controlled by a single scalar threshold but which expose no native
// probability output.
type ThresholdRunner func(threshold float64) (series.Labels, error)

// SweepPR traces a precision-recall curve by re-running the detector at
// threshold = dt, 2*dt, ... and recomputing precision and recall at each
// step, stopping once recall reaches 1.0. The curve always starts at the
// fixed seed point (precision=1, recall=0). maxIter bounds the sweep;
// exceeding it fails with ErrNonConvergent.
func SweepPR(run ThresholdRunner, truth series.Labels, dt float64, maxIter int) ([]PRPoint, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("pr sweep: dt %v: %w", dt, series.ErrInvalidParameter)
	}
	if maxIter <= 0 {
		return nil, fmt.Errorf("pr sweep: maxIter %d: %w", maxIter, series.ErrInvalidParameter)
	}
	if len(truth) == 0 {
		return nil, fmt.Errorf("pr sweep: %w", series.ErrEmptySeries)
	}

	curve := []PRPoint{{Precision: 1, Recall: 0}}

	threshold := 0.0
	for i := 0; i < maxIter; i++ {
		threshold += dt

		prediction, err := run(threshold)
		if err != nil {
			return nil, fmt.Errorf("pr sweep: threshold %v: %w", threshold, err)
		}

		counts, err := metrics.Confusion(truth, prediction)
		if err != nil {
			return nil, fmt.Errorf("pr sweep: threshold %v: %w", threshold, err)
		}

		recall := counts.Recall()
		curve = append(curve, PRPoint{Precision: counts.Precision(), Recall: recall})

		if recall >= 1.0 {
			return curve, nil
		}
	}

	return nil, fmt.Errorf("pr sweep: %d iterations at dt=%v: %w", maxIter, dt, ErrNonConvergent)
}
