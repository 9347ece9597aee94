package model

// Report is one parsed CSV metrics file.
// The first record of the file is the header; the remaining records are rows.
// Cell values are kept as strings and pass through the aggregation untouched.
type Report struct {
	// Path is the file path this report was loaded from.
	Path string

	// Columns is the ordered header of the file.
	Columns []string

	// Rows holds the data records in file order, excluding the header.
	Rows [][]string
}

// RowCount returns the number of data rows, excluding the header.
func (r *Report) RowCount() int {
	return len(r.Rows)
}

// SourceStat records the contribution of a single input file to a
// combined report. It is used for run summaries and history comparison.
type SourceStat struct {
	// Path is the input file path.
	Path string `json:"path"`

	// RowCount is the number of data rows the file contributed.
	RowCount int `json:"row_count"`
}

// CombinedReport is the concatenation of all discovered reports.
// Rows appear in discovery order, with each source file's internal row
// order preserved. Columns are taken from the first discovered file.
type CombinedReport struct {
	// Columns is the header of the combined output, from the first report.
	Columns []string

	// Rows holds all data rows, concatenated in discovery order.
	Rows [][]string

	// Sources records each input file and its row contribution,
	// in discovery order.
	Sources []SourceStat
}

// RowCount returns the number of combined data rows, excluding the header.
func (c *CombinedReport) RowCount() int {
	return len(c.Rows)
}
