package aggregate

import (
	"fmt"
	"slices"

	"github.com/nao1215/reportcat/internal/model"
)

// Combine concatenates the rows of the given reports in order.
// The combined columns are taken from the first report.
//
// When checkSchema is true, every report's columns must equal the first
// report's columns exactly (same names, same order); a mismatch fails with
// an error wrapping ErrSchemaMismatch that names the offending file.
// When checkSchema is false, rows are concatenated as-is regardless of
// header differences, matching the permissive behavior of naive
// concatenation tools.
//
// Combining zero reports returns ErrNoInputFiles.
func Combine(reports []*model.Report, checkSchema bool) (*model.CombinedReport, error) {
	if len(reports) == 0 {
		return nil, ErrNoInputFiles
	}

	combined := &model.CombinedReport{
		Columns: reports[0].Columns,
		Sources: make([]model.SourceStat, 0, len(reports)),
	}

	for _, report := range reports {
		if checkSchema && !slices.Equal(report.Columns, combined.Columns) {
			return nil, fmt.Errorf("%w: %s has columns %v, first file has %v",
				ErrSchemaMismatch, report.Path, report.Columns, combined.Columns)
		}
		combined.Rows = append(combined.Rows, report.Rows...)
		combined.Sources = append(combined.Sources, model.SourceStat{
			Path:     report.Path,
			RowCount: report.RowCount(),
		})
	}
	return combined, nil
}
