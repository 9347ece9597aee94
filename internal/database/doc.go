// Package database provides SQLite-based storage for aggregation run history.
//
// Every combine run stores its RunReport summary, enabling later listing
// and run-to-run comparison via the history command. The database lives in
// the XDG data directory by default.
package database
