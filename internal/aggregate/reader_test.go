package aggregate

import (
	"errors"
	"testing"
)

// TestLoadReport verifies CSV parsing into a Report.
func TestLoadReport(t *testing.T) {
	t.Parallel()

	t.Run("parses header and rows", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "a.csv", "id,val\n1,10\n2,20\n")

		report, err := LoadReport(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if report.Path != path {
			t.Errorf("Path = %s, want %s", report.Path, path)
		}
		if len(report.Columns) != 2 || report.Columns[0] != "id" || report.Columns[1] != "val" {
			t.Errorf("Columns = %v, want [id val]", report.Columns)
		}
		if report.RowCount() != 2 {
			t.Fatalf("RowCount = %d, want 2", report.RowCount())
		}
		if report.Rows[0][0] != "1" || report.Rows[0][1] != "10" {
			t.Errorf("Rows[0] = %v, want [1 10]", report.Rows[0])
		}
		if report.Rows[1][0] != "2" || report.Rows[1][1] != "20" {
			t.Errorf("Rows[1] = %v, want [2 20]", report.Rows[1])
		}
	})

	t.Run("header-only file has zero rows", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "empty.csv", "id,val\n")

		report, err := LoadReport(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report.RowCount() != 0 {
			t.Errorf("RowCount = %d, want 0", report.RowCount())
		}
	})

	t.Run("quoted fields are decoded", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "quoted.csv", "id,name\n1,\"a,b\"\n")

		report, err := LoadReport(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report.Rows[0][1] != "a,b" {
			t.Errorf("Rows[0][1] = %q, want %q", report.Rows[0][1], "a,b")
		}
	})

	t.Run("completely empty file returns ErrEmptyFile", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "zero.csv", "")

		_, err := LoadReport(path)
		if !errors.Is(err, ErrEmptyFile) {
			t.Errorf("expected ErrEmptyFile, got %v", err)
		}
	})

	t.Run("inconsistent field count returns parse error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "broken.csv", "id,val\n1,10,extra\n")

		if _, err := LoadReport(path); err == nil {
			t.Error("expected parse error, got nil")
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadReport(t.TempDir() + "/missing.csv"); err == nil {
			t.Error("expected error for missing file, got nil")
		}
	})
}
