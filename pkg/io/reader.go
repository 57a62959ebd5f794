// Package io provides dataset loading for evaluation runs.
package io

import "github.com/hed1ad/anombench/pkg/series"

// Dataset pairs a series with its aligned ground-truth labels.
type Dataset struct {
	Name   string
	Series series.Series
	Truth  series.Labels
}

// Reader loads labeled datasets from some source. The harness consumes
// one series + truth pair per evaluation run and stays agnostic to the
// underlying format.
type Reader interface {
	// Read returns all datasets from the source.
	Read() ([]Dataset, error)

	// Close releases resources.
	Close() error
}
