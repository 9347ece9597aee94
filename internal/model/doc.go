// Package model defines the core data structures for CSV report aggregation.
//
// This package contains the data types shared across the application:
//   - Report: one parsed CSV metrics file
//   - CombinedReport: the concatenation of all discovered reports
//   - RunReport: a summary of one aggregation run
//
// Design decision: Data structures are separated from the aggregation logic
// (internal/aggregate) and presentation (internal/report) so that writers and
// storage can evolve without touching the core types.
package model
