package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/anombench/pkg/series"
)

func TestConfusion(t *testing.T) {
	tests := []struct {
		name       string
		truth      series.Labels
		prediction series.Labels
		want       ConfusionCounts
		wantErr    error
	}{
		{
			name:       "worked example",
			truth:      series.Labels{1, 0, 1, 0},
			prediction: series.Labels{1, 0, 0, 0},
			want:       ConfusionCounts{TruePositive: 1, FalsePositive: 0, TrueNegative: 2, FalseNegative: 1},
		},
		{
			name:       "perfect prediction",
			truth:      series.Labels{0, 1, 1},
			prediction: series.Labels{0, 1, 1},
			want:       ConfusionCounts{TruePositive: 2, TrueNegative: 1},
		},
		{
			name:       "length mismatch",
			truth:      series.Labels{0, 1},
			prediction: series.Labels{0},
			wantErr:    series.ErrShapeMismatch,
		},
		{
			name:       "invalid truth label",
			truth:      series.Labels{0, 2},
			prediction: series.Labels{0, 1},
			wantErr:    series.ErrInvalidLabel,
		},
		{
			name:       "invalid prediction label",
			truth:      series.Labels{0, 1},
			prediction: series.Labels{0, -1},
			wantErr:    series.ErrInvalidLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Confusion(tt.truth, tt.prediction)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetricsWorkedExample(t *testing.T) {
	truth := series.Labels{1, 0, 1, 0}
	prediction := series.Labels{1, 0, 0, 0}

	p, err := Precision(truth, prediction)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	r, err := Recall(truth, prediction)
	require.NoError(t, err)
	assert.Equal(t, 0.5, r)

	f, err := F1(truth, prediction)
	require.NoError(t, err)
	assert.InDelta(t, 0.667, f, 0.001)
}

func TestMetricsIdentity(t *testing.T) {
	truth := series.Labels{0, 1, 0, 1, 1}

	c, err := Confusion(truth, truth)
	require.NoError(t, err)
	assert.Zero(t, c.FalsePositive)
	assert.Zero(t, c.FalseNegative)

	assert.Equal(t, 1.0, c.Precision())
	assert.Equal(t, 1.0, c.Recall())
	assert.Equal(t, 1.0, c.F1())
}

func TestMetricsAllZeroPrediction(t *testing.T) {
	// Predicting no anomalies at all: precision 1.0 by the
	// zero-denominator convention, recall 0, F1 0.
	truth := series.Labels{0, 1, 0, 0, 1}
	prediction := series.Labels{0, 0, 0, 0, 0}

	p, err := Precision(truth, prediction)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	r, err := Recall(truth, prediction)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r)

	f, err := F1(truth, prediction)
	require.NoError(t, err)
	assert.Equal(t, 0.0, f)
}

func TestRecallZeroDenominator(t *testing.T) {
	// Truth with no positives pins recall at 0 regardless of prediction.
	truth := series.Labels{0, 0, 0}
	prediction := series.Labels{1, 0, 1}

	r, err := Recall(truth, prediction)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r)
}

func TestEmptyInputRejected(t *testing.T) {
	// Zero-length input is an error for every metric, same as for the
	// detectors.
	_, err := Confusion(series.Labels{}, series.Labels{})
	assert.ErrorIs(t, err, series.ErrEmptySeries)

	_, err = Precision(series.Labels{}, series.Labels{})
	assert.ErrorIs(t, err, series.ErrEmptySeries)

	_, err = Recall(series.Labels{}, series.Labels{})
	assert.ErrorIs(t, err, series.ErrEmptySeries)

	_, err = F1(series.Labels{}, series.Labels{})
	assert.ErrorIs(t, err, series.ErrEmptySeries)
}
