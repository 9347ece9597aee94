package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/reportcat/internal/model"
)

// DefaultPattern is the glob pattern used to discover input files.
const DefaultPattern = "*.csv"

// DefaultOutputPath returns the default output location for an input
// directory: a combined_reports directory that is a sibling of the input
// directory, holding combined.csv.
//
// For example, inputs in "metrics/win" are written to
// "metrics/combined_reports/combined.csv". The path is derived from the
// input directory itself, never from the process working directory.
func DefaultOutputPath(inputDir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(inputDir)), "combined_reports", "combined.csv")
}

// Aggregator runs one aggregation: discover input files, load each as a
// report, concatenate them, and write the combined CSV.
//
// Each run is independent and stateless; an Aggregator may be reused, but
// it holds no state between runs. Any failure aborts the whole run with no
// retries or partial-failure recovery.
type Aggregator struct {
	// inputDir is the directory to discover input files in.
	inputDir string

	// outputPath is where the combined CSV is written.
	outputPath string

	// pattern is the glob pattern for discovery.
	pattern string

	// checkSchema enables fail-fast column validation across input files.
	checkSchema bool

	// logger is used for run-level logging.
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger for the run.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithPattern overrides the discovery glob pattern.
// The default is DefaultPattern ("*.csv").
func WithPattern(pattern string) Option {
	return func(a *Aggregator) {
		if pattern != "" {
			a.pattern = pattern
		}
	}
}

// WithOutputPath overrides the output file path.
// The default is DefaultOutputPath(inputDir).
func WithOutputPath(path string) Option {
	return func(a *Aggregator) {
		if path != "" {
			a.outputPath = path
		}
	}
}

// WithSchemaCheck enables or disables column validation across input files.
// The default is enabled. Disabling restores the permissive behavior of
// concatenating rows regardless of header differences.
func WithSchemaCheck(check bool) Option {
	return func(a *Aggregator) {
		a.checkSchema = check
	}
}

// NewAggregator creates an Aggregator for the given input directory.
func NewAggregator(inputDir string, opts ...Option) *Aggregator {
	a := &Aggregator{
		inputDir:    inputDir,
		pattern:     DefaultPattern,
		checkSchema: true,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.outputPath == "" {
		a.outputPath = DefaultOutputPath(inputDir)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// OutputPath returns the path the combined CSV will be written to.
func (a *Aggregator) OutputPath() string {
	return a.outputPath
}

// Run executes one aggregation and returns a summary of the run.
//
// Input files are loaded sequentially in discovery order; each file is
// fully read and closed before the next is opened. Context cancellation
// is checked between files. The first error aborts the run.
func (a *Aggregator) Run(ctx context.Context) (*model.RunReport, error) {
	start := time.Now()

	paths, err := Discover(a.inputDir, a.pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s (pattern %q)", ErrNoInputFiles, a.inputDir, a.pattern)
	}
	a.logger.Debug("discovered input files",
		"dir", a.inputDir,
		"pattern", a.pattern,
		"count", len(paths),
	)

	reports := make([]*model.Report, 0, len(paths))
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		report, err := LoadReport(path)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("loaded report", "path", path, "rows", report.RowCount())
		reports = append(reports, report)
	}

	combined, err := Combine(reports, a.checkSchema)
	if err != nil {
		return nil, err
	}

	if err := WriteCombined(combined, a.outputPath); err != nil {
		return nil, err
	}

	run := model.NewRunReport(combined, a.inputDir, a.outputPath, a.pattern, time.Since(start))
	a.logger.Info("combined report written",
		"output", a.outputPath,
		"files", run.FileCount,
		"rows", run.TotalRows,
	)
	return run, nil
}
