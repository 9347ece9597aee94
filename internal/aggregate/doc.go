// Package aggregate implements CSV report discovery, loading, combination,
// and output.
//
// The package provides both the individual stages (Discover, LoadReport,
// Combine, WriteCombined) and an Aggregator that orchestrates one complete
// run. A BatchProcessor aggregates multiple independent directories with
// bounded concurrency using errgroup; within a single directory, processing
// is strictly sequential and each input file is fully read and closed before
// the next is opened.
package aggregate
