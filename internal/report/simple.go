package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/reportcat/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-source breakdown in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-source file breakdown.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(run *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeSources(&sb, run)
	w.writeFooter(&sb, run)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the summary header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.RunReport) {
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("COMBINED REPORT\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Input Directory: %s\n", run.InputDir))
	sb.WriteString(fmt.Sprintf("Output File:     %s\n", run.OutputPath))
	sb.WriteString(fmt.Sprintf("Pattern:         %s\n", run.Pattern))
	sb.WriteString(fmt.Sprintf("Columns:         %s\n", strings.Join(run.Columns, ", ")))
	sb.WriteString(fmt.Sprintf("Files Combined:  %d\n", run.FileCount))
	sb.WriteString(fmt.Sprintf("Total Rows:      %d\n", run.TotalRows))
	sb.WriteString("\n")
}

// writeSources writes the per-source file breakdown.
func (w *SimpleWriter) writeSources(sb *strings.Builder, run *model.RunReport) {
	if !w.verbose || len(run.Sources) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("SOURCES\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	for _, src := range run.Sources {
		sb.WriteString(fmt.Sprintf("  [+] %s (%d rows)\n", src.Path, src.RowCount))
	}
	sb.WriteString("\n")
}

// writeFooter writes the completion line.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, run *model.RunReport) {
	sb.WriteString(fmt.Sprintf("Combined at %s in %s\n",
		run.DateCombined.Format("2006-01-02 15:04:05 MST"),
		run.Duration.Round(time.Millisecond),
	))
}
