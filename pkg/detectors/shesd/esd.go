package shesd

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hed1ad/anombench/pkg/series"
)

// madToStdDev converts a median absolute deviation to the equivalent
// standard deviation under a normal distribution.
const madToStdDev = 1.4826

// ESDTester is the built-in Tester: seasonal median decomposition
// followed by a robust generalized ESD test (median + MAD, Student's-t
// critical values per Rosner 1983).
type ESDTester struct {
	// Period is the seasonal cycle length in points. Zero disables the
	// seasonal component and tests the detrended values directly.
	Period int

	// Alpha is the significance level for the GESD test.
	Alpha float64
}

// NewESDTester returns a tester with period detection disabled and the
// conventional 0.05 significance level.
func NewESDTester() *ESDTester {
	return &ESDTester{Alpha: 0.05}
}

// Detect implements Tester. It returns the timestamps of points whose
// residual deviation is significant, honoring direction and the cap on
// the number of flaggable points.
func (t *ESDTester) Detect(s series.Series, maxAnomalyFraction float64, direction Direction) ([]float64, error) {
	values := s.Values()

	residual := values
	if t.Period > 1 && len(values) >= 2*t.Period {
		residual = removeSeasonal(values, t.Period)
	}

	maxOutliers := int(float64(len(values)) * maxAnomalyFraction)
	if maxOutliers < 1 {
		maxOutliers = 1
	}

	alpha := t.Alpha
	if alpha <= 0 {
		alpha = 0.05
	}

	indices := generalizedESD(residual, maxOutliers, alpha, direction)

	timestamps := make([]float64, 0, len(indices))
	for _, idx := range indices {
		timestamps = append(timestamps, s[idx].Timestamp)
	}
	return timestamps, nil
}

// removeSeasonal subtracts the per-position cycle median from each value.
func removeSeasonal(values []float64, period int) []float64 {
	residual := make([]float64, len(values))
	copy(residual, values)

	for pos := 0; pos < period; pos++ {
		var cycle []float64
		for i := pos; i < len(values); i += period {
			cycle = append(cycle, values[i])
		}
		m := median(cycle)
		for i := pos; i < len(values); i += period {
			residual[i] -= m
		}
	}
	return residual
}

// generalizedESD runs the ESD test with robust statistics and returns
// the indices of significant outliers, most extreme first.
func generalizedESD(data []float64, maxOutliers int, alpha float64, direction Direction) []int {
	n := len(data)
	if n < 3 || maxOutliers < 1 {
		return nil
	}

	working := make([]float64, n)
	copy(working, data)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	var candidates []int
	var testStats []float64

	for k := 0; k < maxOutliers && len(working) > 2; k++ {
		center := median(working)
		scale := mad(working, center) * madToStdDev
		if scale < 1e-10 {
			// MAD collapses when most values are identical; fall back
			// to a small fraction of the data range as the scale.
			lo, hi := working[0], working[0]
			for _, v := range working {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			if hi-lo < 1e-10 {
				break
			}
			scale = (hi - lo) * 0.01
		}

		maxIdx := -1
		maxDev := 0.0
		for i, v := range working {
			dev := deviation(v, center, direction)
			if dev > maxDev {
				maxDev = dev
				maxIdx = i
			}
		}
		if maxIdx < 0 {
			break
		}

		testStats = append(testStats, maxDev/scale)
		candidates = append(candidates, indices[maxIdx])

		working = append(working[:maxIdx], working[maxIdx+1:]...)
		indices = append(indices[:maxIdx], indices[maxIdx+1:]...)
	}

	// Rosner's critical values: the largest k with R_k above lambda_k
	// fixes the outlier count.
	significant := 0
	for k := 0; k < len(testStats); k++ {
		nk := n - k
		df := float64(nk - 2)
		if df < 1 {
			break
		}

		p := 1.0 - alpha/float64(2*nk)
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		tCrit := tDist.Quantile(p)

		lambda := float64(nk-1) * tCrit / math.Sqrt((df+tCrit*tCrit)*float64(nk))
		if testStats[k] > lambda {
			significant = k + 1
		}
	}

	return candidates[:significant]
}

// deviation measures how far v lies from center on the tested side.
func deviation(v, center float64, direction Direction) float64 {
	switch direction {
	case DirectionPositive:
		return v - center
	case DirectionNegative:
		return center - v
	default:
		return math.Abs(v - center)
	}
}

func median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

func mad(data []float64, center float64) float64 {
	devs := make([]float64, len(data))
	for i, v := range data {
		devs[i] = math.Abs(v - center)
	}
	return median(devs)
}
