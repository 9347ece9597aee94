package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInputDir is returned when no input directory is specified.
	ErrNoInputDir = errors.New("no input directory specified: provide a directory argument or use --all with a config file")

	// ErrInvalidPattern is returned when the discovery glob pattern is
	// empty or malformed.
	ErrInvalidPattern = errors.New("invalid discovery pattern: must be a valid, non-empty glob")

	// ErrConflictingSummaryFormats is returned when both --json and
	// --markdown are specified. Only one summary format can be used at a time.
	ErrConflictingSummaryFormats = errors.New("conflicting summary formats: --json and --markdown cannot be used together")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no directories are processed in
	// --all mode.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrNoConfiguredDirs is returned when --all is used but the config
	// file lists no directories to aggregate.
	ErrNoConfiguredDirs = errors.New("no directories configured: --all requires a config file with a directories section")
)
