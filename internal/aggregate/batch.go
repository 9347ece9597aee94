package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/reportcat/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor aggregates multiple independent input directories with
// bounded concurrency.
//
// Design decision: We keep the Aggregator focused on a single directory and
// put multi-directory orchestration in a separate type. Concurrency exists
// only across directories; within each directory, files are still processed
// strictly sequentially.
type BatchProcessor struct {
	// factory creates a fresh Aggregator for each directory.
	// A factory ensures per-directory options (output path, pattern)
	// are applied without sharing state between runs.
	factory func(dir string) *Aggregator

	// concurrency is the maximum number of directories processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(bp *BatchProcessor) {
		bp.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of concurrent directory runs.
// Default is 4 if not specified.
func WithBatchConcurrency(n int) BatchOption {
	return func(bp *BatchProcessor) {
		if n > 0 {
			bp.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
// The factory is called once per directory to build its Aggregator.
func NewBatchProcessor(factory func(dir string) *Aggregator, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch aggregates all given directories and returns one RunReport
// per directory, in input order. A failed directory leaves a nil entry in
// the result slice and does not stop the other directories; the combined
// error joins all per-directory failures. Context cancellation stops the
// whole batch.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it is simpler and handles the concurrency limit correctly.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, dirs []string) ([]*model.RunReport, error) {
	bp.logger.Info("starting batch aggregation",
		"directories", len(dirs),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	// Pre-allocate to keep results in input order
	results := make([]*model.RunReport, len(dirs))
	runErrs := make([]error, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, dir := range dirs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			run, err := bp.factory(dir).Run(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				// Record the failure but keep other directories running
				bp.logger.Error("aggregation failed", "dir", dir, "error", err)
				runErrs[i] = fmt.Errorf("%s: %w", dir, err)
				return nil
			}
			results[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	bp.logger.Info("batch aggregation finished",
		"directories", len(dirs),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return results, errors.Join(runErrs...)
}
