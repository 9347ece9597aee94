package database

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/reportcat/internal/model"
)

// newTestRun returns a run summary for storage tests.
func newTestRun(inputDir string, totalRows int) *model.RunReport {
	return &model.RunReport{
		InputDir:   inputDir,
		OutputPath: "metrics/combined_reports/combined.csv",
		Pattern:    "*.csv",
		Columns:    []string{"id", "val"},
		FileCount:  2,
		TotalRows:  totalRows,
		Sources: []model.SourceStat{
			{Path: inputDir + "/a.csv", RowCount: totalRows - 1},
			{Path: inputDir + "/b.csv", RowCount: 1},
		},
		DateCombined: time.Now().UTC(),
		Duration:     10 * time.Millisecond,
	}
}

// TestOpen verifies database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database with default options", func(t *testing.T) {
		t.Parallel()
		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close()
	})

	t.Run("fails when database missing and creation disabled", func(t *testing.T) {
		t.Parallel()
		opts := Options{CreateIfNotExists: false}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error for missing database, got nil")
		}
	})
}

// TestSaveAndQueryRuns verifies the save/list/get round trip.
func TestSaveAndQueryRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	run1 := newTestRun("metrics/win", 3)
	run1.DateCombined = time.Now().UTC().Add(-time.Hour)
	run2 := newTestRun("metrics/win", 5)
	run3 := newTestRun("metrics/linux", 7)

	id1, err := db.SaveRunReport(ctx, run1)
	if err != nil {
		t.Fatalf("failed to save run1: %v", err)
	}
	id2, err := db.SaveRunReport(ctx, run2)
	if err != nil {
		t.Fatalf("failed to save run2: %v", err)
	}
	if _, err := db.SaveRunReport(ctx, run3); err != nil {
		t.Fatalf("failed to save run3: %v", err)
	}

	t.Run("ListRuns returns directory runs newest first", func(t *testing.T) {
		runs, err := db.ListRuns(ctx, "metrics/win")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].ID != id2 || runs[0].TotalRows != 5 {
			t.Errorf("runs[0] = {ID:%d TotalRows:%d}, want newest run first", runs[0].ID, runs[0].TotalRows)
		}
		if runs[1].ID != id1 {
			t.Errorf("runs[1].ID = %d, want %d", runs[1].ID, id1)
		}
	})

	t.Run("stored run preserves sources", func(t *testing.T) {
		runs, err := db.ListRuns(ctx, "metrics/win")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		sources := runs[0].Sources
		if len(sources) != 2 {
			t.Fatalf("expected 2 sources, got %d", len(sources))
		}
		if sources[0].Path != "metrics/win/a.csv" || sources[0].RowCount != 4 {
			t.Errorf("sources[0] = %+v, want {metrics/win/a.csv 4}", sources[0])
		}
	})

	t.Run("LatestRuns limits the result", func(t *testing.T) {
		runs, err := db.LatestRuns(ctx, "metrics/win", 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 1 || runs[0].ID != id2 {
			t.Errorf("expected only the newest run, got %v", runs)
		}
	})

	t.Run("GetRun returns a run by ID", func(t *testing.T) {
		record, err := db.GetRun(ctx, id1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if record == nil {
			t.Fatal("expected a record, got nil")
		}
		if record.InputDir != "metrics/win" || record.TotalRows != 3 {
			t.Errorf("record = %+v, want run1", record)
		}
	})

	t.Run("GetRun returns nil for unknown ID", func(t *testing.T) {
		record, err := db.GetRun(ctx, 99999)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if record != nil {
			t.Errorf("expected nil record, got %+v", record)
		}
	})

	t.Run("ListDirs summarizes all directories", func(t *testing.T) {
		dirs, err := db.ListDirs(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(dirs) != 2 {
			t.Fatalf("expected 2 directories, got %d", len(dirs))
		}

		counts := make(map[string]int, len(dirs))
		for _, dir := range dirs {
			counts[dir.InputDir] = dir.RunCount
			if dir.LastCombined.IsZero() {
				t.Errorf("LastCombined for %s should be set", dir.InputDir)
			}
		}
		if counts["metrics/win"] != 2 || counts["metrics/linux"] != 1 {
			t.Errorf("run counts = %v, want win:2 linux:1", counts)
		}
	})

	t.Run("ListRuns for unknown directory returns nothing", func(t *testing.T) {
		runs, err := db.ListRuns(ctx, "metrics/darwin")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected no runs, got %d", len(runs))
		}
	})
}
