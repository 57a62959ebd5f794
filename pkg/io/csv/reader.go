// Package csv reads labeled time-series datasets from CSV files with
// timestamp, value and label columns.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	anomio "github.com/hed1ad/anombench/pkg/io"
	"github.com/hed1ad/anombench/pkg/series"
)

// Reader reads one labeled dataset from a CSV file.
type Reader struct {
	name      string
	file      *os.File
	reader    *csv.Reader
	hasHeader bool
	headers   []string
}

// Option configures a CSV reader.
type Option func(*Reader)

// WithHeader indicates the CSV has a header row.
func WithHeader(has bool) Option {
	return func(r *Reader) {
		r.hasHeader = has
	}
}

// NewReader creates a new CSV reader.
func NewReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		name:      filename,
		file:      file,
		reader:    csv.NewReader(file),
		hasHeader: true,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.hasHeader {
		headers, err := r.reader.Read()
		if err != nil {
			file.Close()
			return nil, err
		}
		r.headers = headers
	}

	return r, nil
}

// Headers returns the column headers.
func (r *Reader) Headers() []string {
	return r.headers
}

// Read parses the file into a single dataset. Rows must carry ascending
// timestamps; the harness never re-sorts.
func (r *Reader) Read() ([]anomio.Dataset, error) {
	var (
		s     series.Series
		truth series.Labels
	)

	for line := 1; ; line++ {
		record, err := r.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		point, label, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", r.name, line, err)
		}
		s = append(s, point)
		truth = append(truth, label)
	}

	if len(s) == 0 {
		return nil, fmt.Errorf("%s: %w", r.name, series.ErrEmptySeries)
	}

	return []anomio.Dataset{{Name: r.name, Series: s, Truth: truth}}, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// parseRow converts a timestamp,value,label record.
func parseRow(record []string) (series.Point, int, error) {
	if len(record) < 3 {
		return series.Point{}, 0, fmt.Errorf("want 3 columns, got %d", len(record))
	}

	ts, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return series.Point{}, 0, fmt.Errorf("timestamp: %w", err)
	}
	value, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return series.Point{}, 0, fmt.Errorf("value: %w", err)
	}
	label, err := strconv.Atoi(record[2])
	if err != nil {
		return series.Point{}, 0, fmt.Errorf("label: %w", err)
	}
	if label != 0 && label != 1 {
		return series.Point{}, 0, series.ErrInvalidLabel
	}

	return series.Point{Timestamp: ts, Value: value}, label, nil
}
