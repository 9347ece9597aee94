package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/nao1215/reportcat/internal/aggregate"
	"github.com/nao1215/reportcat/internal/config"
	"github.com/nao1215/reportcat/internal/database"
	"github.com/nao1215/reportcat/internal/model"
	"github.com/nao1215/reportcat/internal/report"
	"github.com/spf13/cobra"
)

// NewCombineCmd creates the combine command.
func NewCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine [input-dir]",
		Short: "Combine a directory of CSV reports into one file",
		Long: `Combine discovers CSV files in the input directory, concatenates their
rows in discovery order, and writes a single combined CSV file.

The output header is taken from the first discovered file. By default every
input file must have the same columns as the first; a mismatch aborts the
run. The combined file is written with LF line endings and no row-index
column, and an existing output file is overwritten.

The default output path is a sibling of the input directory:
<parent-of-input-dir>/combined_reports/combined.csv.

Examples:
  # Combine all CSV files under metrics/win
  reportcat combine metrics/win

  # Write the combined file to a specific path
  reportcat combine -o reports/all.csv metrics/win

  # Combine only files matching a pattern
  reportcat combine -p 'bench_*.csv' metrics/win

  # Combine every directory listed in the config file, concurrently
  reportcat combine --all

  # Print the run summary as JSON
  reportcat combine --json metrics/win

Configuration file (.reportcat) example:
  defaults:
    pattern: "*.csv"
  directories:
    metrics/win:
      output: metrics/combined_reports/combined.csv
    metrics/linux:
      schemaCheck: false`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCombineCmd,
	}

	// Aggregation flags
	cmd.Flags().StringP("output", "o", "",
		"Output path for the combined CSV (default: sibling combined_reports/combined.csv)")
	cmd.Flags().StringP("pattern", "p", config.DefaultPattern,
		"Glob pattern for input file discovery")
	cmd.Flags().Bool("no-schema-check", false,
		"Allow input files with differing columns (rows are concatenated as-is)")

	// Batch flags
	cmd.Flags().Bool("all", false,
		"Combine every directory listed in the config file")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of directories combined concurrently with --all")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .reportcat in current or home directory)")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run summary (mutually exclusive with --json)")
	cmd.Flags().String("summary-file", "",
		"Write the run summary to the specified file instead of stdout")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	return cmd
}

// runCombineCmd executes the combine command.
func runCombineCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCombine(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.OutputPath, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Pattern, err = cmd.Flags().GetString("pattern")
	if err != nil {
		return nil, err
	}

	noSchemaCheck, err := cmd.Flags().GetBool("no-schema-check")
	if err != nil {
		return nil, err
	}
	cfg.SchemaCheck = !noSchemaCheck

	cfg.All, err = cmd.Flags().GetBool("all")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-directory configurations from the config file.
	// If the user explicitly specified a config file path, error if not
	// found. If no path was specified, silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.DirConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.DirConfigs = &config.File{
			Directories: make(map[string]config.DirConfig),
		}
	}

	cfg.JSONSummary, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.SummaryFile, err = cmd.Flags().GetString("summary-file")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional argument: the input directory
	if len(args) == 1 {
		cfg.InputDir = args[0]
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// runCombine executes the aggregation.
func runCombine(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Open history database if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveHistory {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Best effort cleanup
		logger.Debug("history database opened", "dir", cfg.DBDir)
	}

	if cfg.All {
		return runBatchCombine(ctx, cfg, db, logger)
	}
	return runSingleCombine(ctx, cfg, db, logger)
}

// runSingleCombine aggregates one input directory.
func runSingleCombine(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	run, err := aggregatorForDir(cfg, cfg.InputDir, logger).Run(ctx)
	if err != nil {
		return err
	}

	if err := outputSummary(cfg, run); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}

	if err := saveRunReport(ctx, db, run, logger); err != nil {
		logger.Error("failed to save run report", "dir", run.InputDir, "error", err)
	}
	return nil
}

// runBatchCombine aggregates every configured directory concurrently.
func runBatchCombine(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	// Deterministic processing order for configured directories
	dirs := make([]string, 0, len(cfg.DirConfigs.Directories))
	for dir := range cfg.DirConfigs.Directories {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	bp := aggregate.NewBatchProcessor(
		func(dir string) *aggregate.Aggregator {
			return aggregatorForDir(cfg, dir, logger)
		},
		aggregate.WithBatchConcurrency(cfg.BatchSize),
		aggregate.WithBatchLogger(logger),
	)

	runs, batchErr := bp.ProcessBatch(ctx, dirs)

	for _, run := range runs {
		if run == nil {
			continue
		}
		if err := outputSummary(cfg, run); err != nil {
			logger.Error("failed to write run summary", "dir", run.InputDir, "error", err)
		}
		if err := saveRunReport(ctx, db, run, logger); err != nil {
			logger.Error("failed to save run report", "dir", run.InputDir, "error", err)
		}
	}

	return batchErr
}

// aggregatorForDir creates an Aggregator for one input directory,
// applying per-directory configuration from the config file.
// Per-directory settings override global flags, matching how the config
// file documents itself.
func aggregatorForDir(cfg *config.Config, dir string, logger *slog.Logger) *aggregate.Aggregator {
	dirCfg := cfg.DirConfigs.GetDirConfig(dir)

	pattern := cfg.Pattern
	if dirCfg.Pattern != "" {
		pattern = dirCfg.Pattern
	}

	output := cfg.OutputPath
	if dirCfg.Output != "" {
		output = dirCfg.Output
	}

	schemaCheck := cfg.SchemaCheck
	if dirCfg.SchemaCheck != nil {
		schemaCheck = *dirCfg.SchemaCheck
	}

	return aggregate.NewAggregator(dir,
		aggregate.WithLogger(logger),
		aggregate.WithPattern(pattern),
		aggregate.WithOutputPath(output),
		aggregate.WithSchemaCheck(schemaCheck),
	)
}

// outputSummary writes the run summary in the requested format.
func outputSummary(cfg *config.Config, run *model.RunReport) error {
	// Determine output destination
	var output *os.File
	if cfg.SummaryFile != "" {
		dir := filepath.Dir(cfg.SummaryFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create summary directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.SummaryFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Summary path is user-provided
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Flushed by writers below
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output
	if cfg.JSONSummary {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(run)
		return err
	}

	// Markdown output
	if cfg.MarkdownSummary {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(run)
		return err
	}

	// Human-readable summary (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(run)
	return err
}

// saveRunReport saves the run summary to the history database.
// If db is nil, this function is a no-op.
func saveRunReport(ctx context.Context, db *database.HistoryDB, run *model.RunReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveRunReport(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	logger.Debug("run report saved to history", "dir", run.InputDir, "id", id)
	return nil
}
