package aggregate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/reportcat/internal/model"
)

// WriteCombined serializes the combined report as CSV to outPath.
// The header is written first, followed by all rows. Line endings are LF:
// csv.Writer emits "\n" terminators unless UseCRLF is set, which we never
// set. No synthetic row-index column is added.
//
// The parent directory is created if it does not exist, and an existing
// output file is overwritten.
func WriteCombined(combined *model.CombinedReport, outPath string) error {
	dir := filepath.Dir(outPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Output path is user-provided
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outPath, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(combined.Columns); err != nil {
		_ = f.Close() //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to write header to %s: %w", outPath, err)
	}
	if err := w.WriteAll(combined.Rows); err != nil {
		_ = f.Close() //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to write rows to %s: %w", outPath, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", outPath, err)
	}
	return nil
}
