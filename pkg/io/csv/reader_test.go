package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/anombench/pkg/series"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadLabeledDataset(t *testing.T) {
	path := writeTempCSV(t, "timestamp,value,label\n1,10.5,0\n2,11.0,0\n3,99.9,1\n")

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"timestamp", "value", "label"}, r.Headers())

	datasets, err := r.Read()
	require.NoError(t, err)
	require.Len(t, datasets, 1)

	ds := datasets[0]
	require.Len(t, ds.Series, 3)
	assert.Equal(t, series.Point{Timestamp: 3, Value: 99.9}, ds.Series[2])
	assert.Equal(t, series.Labels{0, 0, 1}, ds.Truth)
}

func TestReadWithoutHeader(t *testing.T) {
	path := writeTempCSV(t, "1,10,0\n2,20,1\n")

	r, err := NewReader(path, WithHeader(false))
	require.NoError(t, err)
	defer r.Close()

	datasets, err := r.Read()
	require.NoError(t, err)
	require.Len(t, datasets[0].Series, 2)
}

func TestReadRejectsBadRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing column", content: "1,10\n"},
		{name: "bad timestamp", content: "x,10,0\n"},
		{name: "bad value", content: "1,x,0\n"},
		{name: "bad label", content: "1,10,x\n"},
		{name: "label outside domain", content: "1,10,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.content)
			r, err := NewReader(path, WithHeader(false))
			require.NoError(t, err)
			defer r.Close()

			_, err = r.Read()
			assert.Error(t, err)
		})
	}
}

func TestReadEmptyFile(t *testing.T) {
	path := writeTempCSV(t, "timestamp,value,label\n")

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Read()
	assert.ErrorIs(t, err, series.ErrEmptySeries)
}

func TestMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
