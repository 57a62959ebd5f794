// Package eval compares detector output against ground truth: exhaustive
// hyperparameter grid search and manual precision-recall curve sweeps.
package eval

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hed1ad/anombench/pkg/detectors"
	"github.com/hed1ad/anombench/pkg/metrics"
	"github.com/hed1ad/anombench/pkg/series"
)

// Axis is one hyperparameter and its candidate values.
type Axis struct {
	Name   string
	Values []any
}

// Grid is an ordered set of hyperparameter axes. The search space is the
// cartesian product of all axes; enumeration follows declaration order
// with the first axis outermost and values in supplied order, so runs
// are reproducible.
type Grid struct {
	axes []Axis
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{}
}

// Add appends an axis. Returns the grid for chaining.
func (g *Grid) Add(name string, values ...any) *Grid {
	g.axes = append(g.axes, Axis{Name: name, Values: values})
	return g
}

// Names returns the axis names in declaration order, for rendering
// assignments deterministically.
func (g *Grid) Names() []string {
	names := make([]string, len(g.axes))
	for i, a := range g.axes {
		names[i] = a.Name
	}
	return names
}

// Size returns the number of combinations in the cartesian product.
func (g *Grid) Size() int {
	if len(g.axes) == 0 {
		return 0
	}
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Assignment is one point of the cartesian product.
type Assignment map[string]any

// combinations enumerates the cartesian product in deterministic order.
func (g *Grid) combinations() []Assignment {
	out := []Assignment{{}}
	for _, axis := range g.axes {
		next := make([]Assignment, 0, len(out)*len(axis.Values))
		for _, partial := range out {
			for _, v := range axis.Values {
				combo := make(Assignment, len(partial)+1)
				for k, pv := range partial {
					combo[k] = pv
				}
				combo[axis.Name] = v
				next = append(next, combo)
			}
		}
		out = next
	}
	if len(g.axes) == 0 {
		return nil
	}
	return out
}

// Factory builds a detector for one hyperparameter assignment.
type Factory func(a Assignment) (detectors.LabelingDetector, error)

// GridResult is one evaluated combination.
type GridResult struct {
	Params    Assignment
	Precision float64
	Recall    float64
	F1        float64
}

// Searcher runs exhaustive grid search over one detector family.
type Searcher struct {
	logger *zap.SugaredLogger
}

// SearchOption configures a Searcher.
type SearchOption func(*Searcher)

// WithLogger attaches a logger for per-combination progress.
func WithLogger(logger *zap.SugaredLogger) SearchOption {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// NewSearcher creates a grid searcher. Without options it logs nowhere.
func NewSearcher(opts ...SearchOption) *Searcher {
	s := &Searcher{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search evaluates the detector once per combination and returns the
// full result table sorted by descending F1. Ties keep enumeration
// order. Every combination is evaluated; there is no early stopping.
func (s *Searcher) Search(grid *Grid, factory Factory, data series.Series, truth series.Labels) ([]GridResult, error) {
	if grid == nil || grid.Size() == 0 {
		return nil, fmt.Errorf("grid search: empty grid: %w", series.ErrInvalidParameter)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("grid search: %w", series.ErrEmptySeries)
	}
	if len(truth) != len(data) {
		return nil, fmt.Errorf("grid search: truth length %d vs series length %d: %w",
			len(truth), len(data), series.ErrShapeMismatch)
	}

	combos := grid.combinations()
	results := make([]GridResult, 0, len(combos))

	for _, combo := range combos {
		detector, err := factory(combo)
		if err != nil {
			return nil, fmt.Errorf("grid search: build %v: %w", combo, err)
		}

		prediction, err := detector.DetectLabels(data)
		if err != nil {
			return nil, fmt.Errorf("grid search: %s %v: %w", detector.Name(), combo, err)
		}

		counts, err := metrics.Confusion(truth, prediction)
		if err != nil {
			return nil, fmt.Errorf("grid search: %s %v: %w", detector.Name(), combo, err)
		}

		r := GridResult{
			Params:    combo,
			Precision: counts.Precision(),
			Recall:    counts.Recall(),
			F1:        counts.F1(),
		}
		results = append(results, r)
		s.logger.Debugw("grid combination evaluated",
			"detector", detector.Name(), "params", combo, "f1", r.F1)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].F1 > results[j].F1
	})
	return results, nil
}
