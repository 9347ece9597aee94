package model

import "time"

// RunReport is a summary of one aggregation run.
// It records what was combined, where the result was written, and how long
// the run took. RunReports are what the summary writers render and what the
// history database stores.
//
// Design decision: We derive a separate summary type rather than printing
// parts of CombinedReport because:
//  1. It provides a stable, curated view for summary output and storage
//  2. It serializes cleanly to JSON without dragging the row data along
//  3. It separates presentation concerns from the combined table itself
type RunReport struct {
	// InputDir is the directory the input files were discovered in.
	InputDir string `json:"input_dir"`

	// OutputPath is where the combined CSV was written.
	OutputPath string `json:"output_path"`

	// Pattern is the glob pattern used for discovery (e.g. "*.csv").
	Pattern string `json:"pattern"`

	// Columns is the header of the combined output.
	Columns []string `json:"columns"`

	// FileCount is the number of input files combined.
	FileCount int `json:"file_count"`

	// TotalRows is the number of data rows in the combined output,
	// excluding the header.
	TotalRows int `json:"total_rows"`

	// Sources records each input file and its row contribution,
	// in discovery order.
	Sources []SourceStat `json:"sources,omitempty"`

	// DateCombined is when the run was performed.
	DateCombined time.Time `json:"date_combined"`

	// Duration is how long the run took, from discovery to the
	// completed write.
	Duration time.Duration `json:"duration"`
}

// NewRunReport derives a RunReport from a combined report and run metadata.
func NewRunReport(combined *CombinedReport, inputDir, outputPath, pattern string, duration time.Duration) *RunReport {
	return &RunReport{
		InputDir:     inputDir,
		OutputPath:   outputPath,
		Pattern:      pattern,
		Columns:      combined.Columns,
		FileCount:    len(combined.Sources),
		TotalRows:    combined.RowCount(),
		Sources:      combined.Sources,
		DateCombined: time.Now(),
		Duration:     duration,
	}
}
