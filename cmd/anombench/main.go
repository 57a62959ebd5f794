// Command anombench evaluates anomaly detectors on labeled CSV series.
package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hed1ad/anombench/pkg/detectors"
	"github.com/hed1ad/anombench/pkg/detectors/iforest"
	"github.com/hed1ad/anombench/pkg/detectors/iqr"
	"github.com/hed1ad/anombench/pkg/detectors/ocsvm"
	"github.com/hed1ad/anombench/pkg/detectors/shesd"
	"github.com/hed1ad/anombench/pkg/eval"
	anomio "github.com/hed1ad/anombench/pkg/io"
	"github.com/hed1ad/anombench/pkg/io/csv"
	"github.com/hed1ad/anombench/pkg/metrics"
	"github.com/hed1ad/anombench/pkg/series"
)

var (
	inputPath string
	logger    *zap.SugaredLogger
)

func main() {
	root := &cobra.Command{
		Use:          "anombench",
		Short:        "Evaluate anomaly detectors on labeled univariate series",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l.Sugar()
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "labeled CSV dataset (timestamp,value,label)")
	root.MarkPersistentFlagRequired("input")

	root.AddCommand(newRunCmd(), newGridCmd(), newPRCurveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadDataset() (anomio.Dataset, error) {
	r, err := csv.NewReader(inputPath)
	if err != nil {
		return anomio.Dataset{}, err
	}
	defer r.Close()

	datasets, err := r.Read()
	if err != nil {
		return anomio.Dataset{}, err
	}
	return datasets[0], nil
}

// fallbackClassifier is a deterministic stand-in for an external
// one-class SVM, so the run command can exercise the ocsvm family: it
// flags the nu-fraction of embedding rows whose mean lies farthest from
// the median row mean. The kernel is accepted for interface
// compatibility and ignored.
type fallbackClassifier struct{}

func (fallbackClassifier) FitPredict(rows [][]float64, _ ocsvm.Kernel, nu float64) ([]bool, error) {
	out := make([]bool, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	means := make([]float64, len(rows))
	for i, row := range rows {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		means[i] = sum / float64(len(row))
	}

	sorted := make([]float64, len(means))
	copy(sorted, means)
	sort.Float64s(sorted)
	center := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		center = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}

	// Rank rows by distance from the center; ties keep row order.
	order := make([]int, len(means))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(means[order[a]]-center) > math.Abs(means[order[b]]-center)
	})

	flag := int(math.Ceil(nu * float64(len(rows))))
	if flag > len(rows) {
		flag = len(rows)
	}
	for _, idx := range order[:flag] {
		out[idx] = true
	}
	return out, nil
}

func newRunCmd() *cobra.Command {
	var (
		iqrK        float64
		svmWindow   int
		svmNu       float64
		esdFraction float64
		esdPeriod   int
		ifTrees     int
		ifCutoff    float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every detector once and report precision/recall/F1",
		Long: "Run all four detector families on the dataset and report " +
			"precision/recall/F1 per family. The ocsvm family uses a built-in " +
			"robust-distance classifier in place of an external one-class SVM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			logger.Infow("dataset loaded", "name", ds.Name, "points", len(ds.Series),
				"positives", ds.Truth.Positives())

			suite := []detectors.LabelingDetector{
				iqr.New(iqr.WithMultiplier(iqrK)),
				ocsvm.New(fallbackClassifier{},
					ocsvm.WithWindow(svmWindow), ocsvm.WithNu(svmNu)),
				shesd.New(&shesd.ESDTester{Period: esdPeriod, Alpha: 0.05},
					shesd.WithMaxAnomalyFraction(esdFraction)),
				iforest.New(iforest.WithTrees(ifTrees), iforest.WithThreshold(ifCutoff)),
			}

			fmt.Printf("%-10s %10s %10s %10s\n", "detector", "precision", "recall", "f1")
			for _, d := range suite {
				prediction, err := d.DetectLabels(ds.Series)
				if err != nil {
					return err
				}
				counts, err := metrics.Confusion(ds.Truth, prediction)
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %10.3f %10.3f %10.3f\n",
					d.Name(), counts.Precision(), counts.Recall(), counts.F1())
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&iqrK, "iqr-k", 1.5, "IQR multiplier")
	cmd.Flags().IntVar(&svmWindow, "svm-window", 5, "embedding dimension for ocsvm")
	cmd.Flags().Float64Var(&svmNu, "svm-nu", 0.1, "outlier-fraction bound for ocsvm")
	cmd.Flags().Float64Var(&esdFraction, "esd-fraction", 0.05, "max fraction of points flaggable by ESD")
	cmd.Flags().IntVar(&esdPeriod, "esd-period", 0, "seasonal period in points (0 disables)")
	cmd.Flags().IntVar(&ifTrees, "iforest-trees", 100, "number of isolation trees")
	cmd.Flags().Float64Var(&ifCutoff, "iforest-threshold", 0.5, "isolation forest score cutoff")

	return cmd
}

func newGridCmd() *cobra.Command {
	var multipliers []float64

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Grid-search the IQR multiplier and rank combinations by F1",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}

			grid := eval.NewGrid()
			values := make([]any, len(multipliers))
			for i, k := range multipliers {
				values[i] = k
			}
			grid.Add("k", values...)

			factory := func(a eval.Assignment) (detectors.LabelingDetector, error) {
				return iqr.New(iqr.WithMultiplier(a["k"].(float64))), nil
			}

			results, err := eval.NewSearcher(eval.WithLogger(logger)).
				Search(grid, factory, ds.Series, ds.Truth)
			if err != nil {
				return err
			}

			fmt.Printf("%-20s %10s %10s %10s\n", "params", "precision", "recall", "f1")
			for _, r := range results {
				fmt.Printf("%-20s %10.3f %10.3f %10.3f\n",
					formatAssignment(grid.Names(), r.Params), r.Precision, r.Recall, r.F1)
			}
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&multipliers, "k", []float64{0.5, 1.0, 1.5, 2.0, 3.0}, "IQR multipliers to try")
	return cmd
}

// formatAssignment renders an assignment following the grid's declared
// axis order, so output is deterministic across runs.
func formatAssignment(names []string, a eval.Assignment) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, a[name]))
	}
	return strings.Join(parts, " ")
}

func newPRCurveCmd() *cobra.Command {
	var (
		dt      float64
		maxIter int
		trees   int
	)

	cmd := &cobra.Command{
		Use:   "prcurve",
		Short: "Trace a precision-recall curve for the isolation forest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}

			d := iforest.New(iforest.WithTrees(trees))
			scores, err := d.DetectScores(ds.Series)
			if err != nil {
				return err
			}

			// Each step lowers the score cutoff from 1 toward 0 so the
			// flagged set grows and recall climbs to 1.0.
			run := func(threshold float64) (series.Labels, error) {
				return scores.Threshold(1 - threshold), nil
			}

			curve, err := eval.SweepPR(run, ds.Truth, dt, maxIter)
			if err != nil {
				return err
			}

			fmt.Printf("%10s %10s\n", "precision", "recall")
			for _, p := range curve {
				fmt.Printf("%10.3f %10.3f\n", p.Precision, p.Recall)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&dt, "dt", 0.05, "threshold step size")
	cmd.Flags().IntVar(&maxIter, "max-iter", 1000, "iteration bound before giving up")
	cmd.Flags().IntVar(&trees, "trees", 100, "number of isolation trees")
	return cmd
}
