package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the conventional metrics layout this tool aggregates:
// per-run CSV reports under a metrics directory, combined output written
// to a sibling combined_reports directory.
const (
	// DefaultInputDir is the directory searched for input reports when
	// none is given on the command line or in the config file.
	DefaultInputDir = "metrics"

	// DefaultPattern is the glob pattern used to discover input files.
	// Only the file name is matched, not the full path.
	DefaultPattern = "*.csv"

	// DefaultBatchSize of 4 concurrent directory runs keeps --all mode
	// I/O-bound without saturating the disk. Each directory is still
	// processed sequentially inside its own run.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "reportcat"
)

// Config holds all configuration options for reportcat.
// This struct is populated from CLI flags and the optional config file and
// passed through the application via dependency injection.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// InputDir is the directory containing the CSV reports to combine.
	InputDir string

	// OutputPath is the path of the combined CSV file.
	// When empty, the output goes to the sibling layout:
	// <parent-of-InputDir>/combined_reports/combined.csv.
	OutputPath string

	// Pattern is the glob pattern for input discovery.
	Pattern string

	// SchemaCheck enables fail-fast validation that every input file has
	// the same columns as the first. Disabling it restores permissive
	// concatenation regardless of header differences.
	SchemaCheck bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONSummary outputs the run summary as JSON instead of
	// human-readable text. Mutually exclusive with MarkdownSummary.
	JSONSummary bool

	// MarkdownSummary outputs the run summary as GitHub Flavored Markdown.
	// Mutually exclusive with JSONSummary.
	MarkdownSummary bool

	// SummaryFile is the output file path for the run summary.
	// When empty, the summary is written to stdout.
	SummaryFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .reportcat in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// DirConfigs holds per-directory configurations loaded from the
	// config file.
	DirConfigs *File

	// All aggregates every directory listed in the config file instead
	// of a single input directory.
	All bool

	// BatchSize is the number of directories aggregated concurrently in
	// --all mode. Within each directory, files are read sequentially.
	BatchSize int

	// SaveHistory indicates whether run summaries are saved to the
	// history database for later listing and comparison.
	SaveHistory bool

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (pattern, batch size,
// schema checking). This also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		InputDir:    DefaultInputDir,
		Pattern:     DefaultPattern,
		SchemaCheck: true,
		BatchSize:   DefaultBatchSize,
		SaveHistory: true,
	}
}

// XDGDataDir returns the XDG data directory for reportcat.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/reportcat
// On macOS: ~/Library/Application Support/reportcat
// On Windows: %LOCALAPPDATA%\reportcat
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for reportcat.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.InputDir == "" && !c.All {
		return ErrNoInputDir
	}

	if c.Pattern == "" {
		return ErrInvalidPattern
	}
	// filepath.Match reports malformed patterns regardless of the name
	if _, err := filepath.Match(c.Pattern, "probe.csv"); err != nil {
		return ErrInvalidPattern
	}

	if c.JSONSummary && c.MarkdownSummary {
		return ErrConflictingSummaryFormats
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.All && (c.DirConfigs == nil || len(c.DirConfigs.Directories) == 0) {
		return ErrNoConfiguredDirs
	}

	return nil
}
