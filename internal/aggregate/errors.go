package aggregate

import "errors"

// Aggregation errors.
// These sentinels classify the failure modes of a run: discovery failures,
// parse failures, and schema violations. Callers can use errors.Is() for
// programmatic handling while wrapped messages carry the offending path.
var (
	// ErrDirNotFound is returned when the input directory does not exist
	// or cannot be read.
	ErrDirNotFound = errors.New("input directory not found")

	// ErrNoInputFiles is returned when discovery matches no files.
	// Combining zero reports has no well-formed result, so an empty input
	// directory is treated as an error rather than producing an empty file.
	ErrNoInputFiles = errors.New("no input files matched")

	// ErrEmptyFile is returned when an input file contains no records,
	// not even a header row.
	ErrEmptyFile = errors.New("input file has no header row")

	// ErrSchemaMismatch is returned when an input file's columns differ
	// from the columns of the first discovered file and schema checking
	// is enabled.
	ErrSchemaMismatch = errors.New("input file columns do not match")
)
