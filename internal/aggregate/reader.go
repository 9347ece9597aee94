package aggregate

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/nao1215/reportcat/internal/model"
)

// LoadReport parses the CSV file at path into a Report.
// The first record is taken as the header; the remaining records are rows.
//
// The file is opened, fully read, and closed before LoadReport returns,
// so at most one input file is held open at a time during a run.
// Malformed CSV (including records with inconsistent field counts) fails
// with an error naming the file; a file with no records at all fails with
// ErrEmptyFile.
func LoadReport(path string) (*model.Report, error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from directory discovery
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	return &model.Report{
		Path:    path,
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}
