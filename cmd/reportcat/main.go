// Package main provides the entry point for the reportcat CLI.
//
// reportcat concatenates a directory of per-run CSV metrics reports into one
// combined CSV file and keeps a local history of aggregation runs.
//
// Usage:
//
//	reportcat combine <input-dir>
//	reportcat combine --all
//
// See --help for all available options.
package main

// main is the entry point for reportcat.
func main() {
	Execute()
}
