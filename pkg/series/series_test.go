package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelsValidate(t *testing.T) {
	tests := []struct {
		name    string
		labels  Labels
		wantErr bool
	}{
		{
			name:    "valid binary labels",
			labels:  Labels{0, 1, 1, 0},
			wantErr: false,
		},
		{
			name:    "empty labels",
			labels:  Labels{},
			wantErr: false,
		},
		{
			name:    "negative label",
			labels:  Labels{0, -1, 1},
			wantErr: true,
		},
		{
			name:    "label above one",
			labels:  Labels{0, 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.labels.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLabel)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScoresThreshold(t *testing.T) {
	scores := Scores{0.1, 0.5, 0.9, 0.50001}

	// Strictly greater-than: a score equal to the threshold stays normal.
	assert.Equal(t, Labels{0, 0, 1, 1}, scores.Threshold(0.5))
	assert.Equal(t, Labels{1, 1, 1, 1}, scores.Threshold(0.0))
	assert.Equal(t, Labels{0, 0, 0, 0}, scores.Threshold(1.0))
}

func TestSeriesValues(t *testing.T) {
	s := Series{{Timestamp: 1, Value: 10}, {Timestamp: 2, Value: 20}}

	vals := s.Values()
	assert.Equal(t, []float64{10, 20}, vals)

	// Mutating the returned slice must not touch the series.
	vals[0] = -1
	assert.Equal(t, 10.0, s[0].Value)

	assert.Equal(t, []float64{1, 2}, s.Timestamps())
}

func TestLabelsPositives(t *testing.T) {
	assert.Equal(t, 0, Labels{}.Positives())
	assert.Equal(t, 2, Labels{0, 1, 0, 1}.Positives())
}
