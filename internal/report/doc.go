// Package report provides run-summary generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for documentation and sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. Summary writing is
// kept separate from the summary data structures (internal/model) so new
// output formats can be added without touching the core types.
package report
