package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/reportcat/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing, for example in
// CI job summaries or pull request comments.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation with table support.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(run *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeSources(md, run)
	w.writeFooter(md, run)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.RunReport) {
	md.H1("Combined Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input Directory", "`" + run.InputDir + "`"},
			{"Output File", "`" + run.OutputPath + "`"},
			{"Pattern", "`" + run.Pattern + "`"},
			{"Columns", strings.Join(run.Columns, ", ")},
			{"Files Combined", strconv.Itoa(run.FileCount)},
			{"Total Rows", strconv.Itoa(run.TotalRows)},
		},
	})
	md.PlainText("")
}

// writeSources writes the per-source file table.
func (w *MarkdownWriter) writeSources(md *markdown.Markdown, run *model.RunReport) {
	md.H2("Sources")
	md.PlainText("")

	if len(run.Sources) == 0 {
		md.PlainText("No source files.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(run.Sources))
	for _, src := range run.Sources {
		rows = append(rows, []string{"`" + src.Path + "`", strconv.Itoa(src.RowCount)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"File", "Rows"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the completion note.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, run *model.RunReport) {
	md.PlainTextf("Combined at %s in %s.",
		run.DateCombined.Format("2006-01-02 15:04:05 MST"),
		run.Duration.Round(time.Millisecond),
	)
}
