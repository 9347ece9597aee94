package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/reportcat/internal/config"
	"github.com/nao1215/reportcat/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command lists and compares past aggregation runs stored in the
// history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [input-dir]",
		Short: "List and compare past aggregation runs",
		Long: `History lists past aggregation runs for an input directory and compares
run results over time.

Every 'reportcat combine' run (unless --no-history was used) is recorded in
a local database. This command retrieves that data and shows run metadata,
row-count changes between runs, and which source files appeared, vanished,
or changed size.

Examples:
  # List runs for a directory
  reportcat history metrics/win

  # Compare the latest two runs for a directory
  reportcat history --diff metrics/win

  # Compare the latest run with a specific run by ID
  reportcat history --with-run-id 5 metrics/win

  # Compare the latest run with the first run since a date
  reportcat history --since "2026-08-01" metrics/win

  # List all directories in the database
  reportcat history --list-dirs

  # Output in JSON format
  reportcat history --diff --json metrics/win`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Listing flags
	cmd.Flags().BoolP("list-dirs", "L", false,
		"List all input directories in the history database")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list")

	// Comparison flags
	cmd.Flags().BoolP("diff", "d", false,
		"Compare the latest two runs for the directory")
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run with a specific run by ID")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first run after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listDirs, err := cmd.Flags().GetBool("list-dirs")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var inputDir string
	if !listDirs {
		if len(args) == 0 {
			return errors.New("input directory is required (use --list-dirs to see known directories)")
		}
		inputDir = args[0]
	}

	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingSummaryFormats
	}

	// Use the XDG data directory for the database
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-mostly session

	ctx := context.Background()

	if listDirs {
		return listKnownDirs(ctx, db, jsonOutput)
	}

	if diff || withRunID > 0 || sinceDate != "" {
		return runComparison(ctx, db, inputDir, withRunID, sinceDate, jsonOutput, markdownOutput)
	}

	return listRunHistory(ctx, db, inputDir, limit, jsonOutput)
}

// listKnownDirs prints every input directory in the database.
func listKnownDirs(ctx context.Context, db *database.HistoryDB, jsonOutput bool) error {
	dirs, err := db.ListDirs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list directories: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(dirs)
	}

	if len(dirs) == 0 {
		fmt.Println("No aggregation runs recorded yet.")
		return nil
	}

	fmt.Printf("%-40s %8s  %s\n", "DIRECTORY", "RUNS", "LAST COMBINED")
	for _, dir := range dirs {
		fmt.Printf("%-40s %8d  %s\n",
			dir.InputDir,
			dir.RunCount,
			dir.LastCombined.Local().Format("2006-01-02 15:04:05"),
		)
	}
	return nil
}

// listRunHistory prints the stored runs for one input directory.
func listRunHistory(ctx context.Context, db *database.HistoryDB, inputDir string, limit int, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, inputDir)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return fmt.Errorf("no run history found for %s", inputDir)
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	fmt.Printf("Run history for %s:\n\n", inputDir)
	fmt.Printf("%6s  %-20s %6s %8s  %s\n", "ID", "DATE", "FILES", "ROWS", "OUTPUT")
	for _, run := range runs {
		fmt.Printf("%6d  %-20s %6d %8d  %s\n",
			run.ID,
			run.DateCombined.Local().Format("2006-01-02 15:04:05"),
			run.FileCount,
			run.TotalRows,
			run.OutputPath,
		)
	}
	return nil
}

// RunComparison holds the result of comparing two aggregation runs.
type RunComparison struct {
	// InputDir is the compared input directory.
	InputDir string `json:"input_dir"`

	// PreviousRun contains metadata about the earlier run.
	PreviousRun RunMetadata `json:"previous_run"`

	// CurrentRun contains metadata about the later run.
	CurrentRun RunMetadata `json:"current_run"`

	// FileDelta is the change in combined file count.
	FileDelta int `json:"file_delta"`

	// RowDelta is the change in total combined rows.
	RowDelta int `json:"row_delta"`

	// NewSources lists input files present only in the current run.
	NewSources []string `json:"new_sources,omitempty"`

	// RemovedSources lists input files present only in the previous run.
	RemovedSources []string `json:"removed_sources,omitempty"`

	// ChangedSources lists input files whose row count changed.
	ChangedSources []SourceDelta `json:"changed_sources,omitempty"`
}

// RunMetadata contains metadata about one run for comparison display.
type RunMetadata struct {
	// ID is the run's database identifier.
	ID int64 `json:"id"`

	// DateCombined is when the run was performed.
	DateCombined time.Time `json:"date_combined"`

	// FileCount is the number of files combined.
	FileCount int `json:"file_count"`

	// TotalRows is the number of combined data rows.
	TotalRows int `json:"total_rows"`
}

// SourceDelta describes a row-count change for one input file.
type SourceDelta struct {
	// Path is the input file path.
	Path string `json:"path"`

	// PreviousRows is the file's row count in the previous run.
	PreviousRows int `json:"previous_rows"`

	// CurrentRows is the file's row count in the current run.
	CurrentRows int `json:"current_rows"`
}

// runComparison performs the comparison between two stored runs.
func runComparison(ctx context.Context, db *database.HistoryDB, inputDir string, withRunID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	runs, err := db.ListRuns(ctx, inputDir)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}
	if len(runs) == 0 {
		return fmt.Errorf("no run history found for %s", inputDir)
	}
	if len(runs) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
	}

	// The latest run is always the current one
	currentRun := &runs[0]
	var previousRun *database.RunRecord

	switch {
	case withRunID > 0:
		previousRun, err = db.GetRun(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previousRun == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
		if previousRun.InputDir != inputDir {
			return fmt.Errorf("run ID %d belongs to %s, not %s", withRunID, previousRun.InputDir, inputDir)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Runs are sorted newest first, so iterate in reverse to find
		// the oldest run at or after the date
		for i := len(runs) - 1; i >= 0; i-- {
			r := &runs[i]
			if r.DateCombined.After(parsedDate) || r.DateCombined.Equal(parsedDate) {
				previousRun = r
				break
			}
		}
		if previousRun == nil {
			return fmt.Errorf("no runs found since %s", sinceDate)
		}
		if previousRun == currentRun {
			return fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison", sinceDate)
		}
	default:
		previousRun = &runs[1]
	}

	comparison := compareRuns(previousRun, currentRun)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// compareRuns compares two stored runs and generates a comparison result.
func compareRuns(previous, current *database.RunRecord) *RunComparison {
	result := &RunComparison{
		InputDir: current.InputDir,
		PreviousRun: RunMetadata{
			ID:           previous.ID,
			DateCombined: previous.DateCombined,
			FileCount:    previous.FileCount,
			TotalRows:    previous.TotalRows,
		},
		CurrentRun: RunMetadata{
			ID:           current.ID,
			DateCombined: current.DateCombined,
			FileCount:    current.FileCount,
			TotalRows:    current.TotalRows,
		},
		FileDelta: current.FileCount - previous.FileCount,
		RowDelta:  current.TotalRows - previous.TotalRows,
	}

	previousRows := make(map[string]int, len(previous.Sources))
	for _, src := range previous.Sources {
		previousRows[src.Path] = src.RowCount
	}
	currentRows := make(map[string]int, len(current.Sources))
	for _, src := range current.Sources {
		currentRows[src.Path] = src.RowCount
	}

	for _, src := range current.Sources {
		prev, ok := previousRows[src.Path]
		switch {
		case !ok:
			result.NewSources = append(result.NewSources, src.Path)
		case prev != src.RowCount:
			result.ChangedSources = append(result.ChangedSources, SourceDelta{
				Path:         src.Path,
				PreviousRows: prev,
				CurrentRows:  src.RowCount,
			})
		}
	}
	for _, src := range previous.Sources {
		if _, ok := currentRows[src.Path]; !ok {
			result.RemovedSources = append(result.RemovedSources, src.Path)
		}
	}
	sort.Strings(result.NewSources)
	sort.Strings(result.RemovedSources)
	sort.Slice(result.ChangedSources, func(i, j int) bool {
		return result.ChangedSources[i].Path < result.ChangedSources[j].Path
	})

	return result
}

// outputComparisonJSON prints the comparison as indented JSON.
func outputComparisonJSON(comparison *RunComparison) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(comparison)
}

// outputComparisonText prints the comparison in human-readable format.
func outputComparisonText(comparison *RunComparison) error {
	fmt.Printf("Comparison for %s\n\n", comparison.InputDir)
	fmt.Printf("Previous run: #%d at %s (%d files, %d rows)\n",
		comparison.PreviousRun.ID,
		comparison.PreviousRun.DateCombined.Local().Format("2006-01-02 15:04:05"),
		comparison.PreviousRun.FileCount,
		comparison.PreviousRun.TotalRows,
	)
	fmt.Printf("Current run:  #%d at %s (%d files, %d rows)\n\n",
		comparison.CurrentRun.ID,
		comparison.CurrentRun.DateCombined.Local().Format("2006-01-02 15:04:05"),
		comparison.CurrentRun.FileCount,
		comparison.CurrentRun.TotalRows,
	)

	fmt.Printf("Files: %+d  Rows: %+d\n", comparison.FileDelta, comparison.RowDelta)

	if len(comparison.NewSources) > 0 {
		fmt.Println("\nNew source files:")
		for _, path := range comparison.NewSources {
			fmt.Printf("  [+] %s\n", path)
		}
	}
	if len(comparison.RemovedSources) > 0 {
		fmt.Println("\nRemoved source files:")
		for _, path := range comparison.RemovedSources {
			fmt.Printf("  [-] %s\n", path)
		}
	}
	if len(comparison.ChangedSources) > 0 {
		fmt.Println("\nChanged source files:")
		for _, delta := range comparison.ChangedSources {
			fmt.Printf("  [~] %s: %d -> %d rows\n", delta.Path, delta.PreviousRows, delta.CurrentRows)
		}
	}
	if len(comparison.NewSources) == 0 && len(comparison.RemovedSources) == 0 && len(comparison.ChangedSources) == 0 {
		fmt.Println("\nNo source-level changes.")
	}
	return nil
}

// outputComparisonMarkdown prints the comparison in Markdown format.
func outputComparisonMarkdown(comparison *RunComparison) error {
	md := markdown.NewMarkdown(os.Stdout)

	md.H1("Run Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Run", "ID", "Date", "Files", "Rows"},
		Rows: [][]string{
			{
				"Previous",
				strconv.FormatInt(comparison.PreviousRun.ID, 10),
				comparison.PreviousRun.DateCombined.Local().Format("2006-01-02 15:04:05"),
				strconv.Itoa(comparison.PreviousRun.FileCount),
				strconv.Itoa(comparison.PreviousRun.TotalRows),
			},
			{
				"Current",
				strconv.FormatInt(comparison.CurrentRun.ID, 10),
				comparison.CurrentRun.DateCombined.Local().Format("2006-01-02 15:04:05"),
				strconv.Itoa(comparison.CurrentRun.FileCount),
				strconv.Itoa(comparison.CurrentRun.TotalRows),
			},
		},
	})
	md.PlainText("")
	md.PlainTextf("Files: %+d, Rows: %+d", comparison.FileDelta, comparison.RowDelta)
	md.PlainText("")

	if len(comparison.NewSources) > 0 {
		md.H2("New Source Files")
		md.BulletList(comparison.NewSources...)
		md.PlainText("")
	}
	if len(comparison.RemovedSources) > 0 {
		md.H2("Removed Source Files")
		md.BulletList(comparison.RemovedSources...)
		md.PlainText("")
	}
	if len(comparison.ChangedSources) > 0 {
		md.H2("Changed Source Files")
		rows := make([][]string, 0, len(comparison.ChangedSources))
		for _, delta := range comparison.ChangedSources {
			rows = append(rows, []string{
				"`" + delta.Path + "`",
				strconv.Itoa(delta.PreviousRows),
				strconv.Itoa(delta.CurrentRows),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"File", "Previous Rows", "Current Rows"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return md.Build()
}
