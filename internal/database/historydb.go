package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/reportcat/internal/model"
)

// HistoryDB provides SQLite-based storage for aggregation run history.
// It manages connection pooling and provides methods for saving and
// querying run summaries.
//
// Design decision: We store the full RunReport as a JSON blob alongside
// queryable metadata columns. The per-source breakdown rides inside the
// blob, which keeps the schema flat while listing queries stay cheap.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// RunRecord is a stored aggregation run with its database identity.
type RunRecord struct {
	// ID is the unique identifier of the run in the database.
	ID int64 `json:"id"`

	// RunReport is the stored run summary.
	model.RunReport
}

// DirSummary describes one input directory known to the history database.
type DirSummary struct {
	// InputDir is the input directory path.
	InputDir string

	// RunCount is the number of stored runs for the directory.
	RunCount int

	// LastCombined is the timestamp of the most recent run.
	LastCombined time.Time
}

// timestampFormats are the layouts SQLite may hand back for DATETIME columns.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "reportcat.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent saves from batch mode.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Run records store one row per aggregation run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_dir TEXT NOT NULL,
		output_path TEXT NOT NULL,
		file_count INTEGER NOT NULL,
		total_rows INTEGER NOT NULL,
		run_json TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input_dir ON runs(input_dir);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	if _, err := hdb.db.ExecContext(context.Background(), schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// SaveRunReport stores a run summary and returns its database ID.
func (hdb *HistoryDB) SaveRunReport(ctx context.Context, run *model.RunReport) (int64, error) {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run report: %w", err)
	}

	query := `
	INSERT INTO runs (input_dir, output_path, file_count, total_rows, run_json, timestamp)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		run.InputDir,
		run.OutputPath,
		run.FileCount,
		run.TotalRows,
		string(runJSON),
		run.DateCombined.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return id, nil
}

// ListRuns returns all stored runs for an input directory, newest first.
func (hdb *HistoryDB) ListRuns(ctx context.Context, inputDir string) ([]RunRecord, error) {
	query := `
	SELECT id, run_json FROM runs
	WHERE input_dir = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var runJSON string
		if err := rows.Scan(&record.ID, &runJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(runJSON), &record.RunReport); err != nil {
			continue // Skip malformed records
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// LatestRuns returns up to n of the most recent runs for an input directory,
// newest first.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, inputDir string, n int) ([]RunRecord, error) {
	records, err := hdb.ListRuns(ctx, inputDir)
	if err != nil {
		return nil, err
	}
	if len(records) > n {
		records = records[:n]
	}
	return records, nil
}

// GetRun returns a stored run by ID, or nil if no run has that ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	query := `
	SELECT id, run_json FROM runs
	WHERE id = ?
	`

	var record RunRecord
	var runJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&record.ID, &runJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if err := json.Unmarshal([]byte(runJSON), &record.RunReport); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}
	return &record, nil
}

// ListDirs returns a summary of every input directory in the database,
// most recently combined first.
func (hdb *HistoryDB) ListDirs(ctx context.Context) ([]DirSummary, error) {
	query := `
	SELECT input_dir, COUNT(*), MAX(timestamp)
	FROM runs
	GROUP BY input_dir
	ORDER BY MAX(timestamp) DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list directories: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	var summaries []DirSummary
	for rows.Next() {
		var summary DirSummary
		var timestamp string
		if err := rows.Scan(&summary.InputDir, &summary.RunCount, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan directory summary: %w", err)
		}
		summary.LastCombined = parseTimestamp(timestamp)
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// parseTimestamp parses a SQLite DATETIME value in any of the layouts the
// driver may return.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Zero time fallback keeps listing working for unexpected layouts
	return time.Time{}
}
