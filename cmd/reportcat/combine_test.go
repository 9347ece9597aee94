package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/reportcat/internal/config"
)

// writeCSV writes a CSV file into dir and returns its path.
func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestBuildConfig verifies flag-to-config plumbing for the combine command.
func TestBuildConfig(t *testing.T) {
	t.Run("defaults when no flags are set", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewCombineCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Pattern != config.DefaultPattern {
			t.Errorf("Pattern = %s, want %s", cfg.Pattern, config.DefaultPattern)
		}
		if !cfg.SchemaCheck {
			t.Error("SchemaCheck should default to true")
		}
		if !cfg.SaveHistory {
			t.Error("SaveHistory should default to true")
		}
		if cfg.DBDir == "" {
			t.Error("DBDir should be set to the data directory")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewCombineCmd()
		flags := []string{
			"-o", "out/all.csv",
			"-p", "bench_*.csv",
			"--no-schema-check",
			"--no-history",
			"-j",
			"--summary-file", "summary.json",
			"-b", "2",
		}
		if err := cmd.ParseFlags(flags); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"metrics/win"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.InputDir != "metrics/win" {
			t.Errorf("InputDir = %s, want metrics/win", cfg.InputDir)
		}
		if cfg.OutputPath != "out/all.csv" {
			t.Errorf("OutputPath = %s, want out/all.csv", cfg.OutputPath)
		}
		if cfg.Pattern != "bench_*.csv" {
			t.Errorf("Pattern = %s, want bench_*.csv", cfg.Pattern)
		}
		if cfg.SchemaCheck {
			t.Error("SchemaCheck should be false with --no-schema-check")
		}
		if cfg.SaveHistory {
			t.Error("SaveHistory should be false with --no-history")
		}
		if !cfg.JSONSummary {
			t.Error("JSONSummary should be true with -j")
		}
		if cfg.SummaryFile != "summary.json" {
			t.Errorf("SummaryFile = %s, want summary.json", cfg.SummaryFile)
		}
		if cfg.BatchSize != 2 {
			t.Errorf("BatchSize = %d, want 2", cfg.BatchSize)
		}
	})

	t.Run("explicit missing config file returns error", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewCombineCmd()
		if err := cmd.ParseFlags([]string{"-c", "does-not-exist.yaml"}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, nil); err == nil {
			t.Error("expected error for missing explicit config file, got nil")
		}
	})

	t.Run("explicit config file is loaded", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		configPath := filepath.Join(dir, "custom.yaml")
		content := "directories:\n  metrics/win:\n    pattern: \"bench_*.csv\"\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewCombineCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := cfg.DirConfigs.Directories["metrics/win"].Pattern; got != "bench_*.csv" {
			t.Errorf("configured pattern = %s, want bench_*.csv", got)
		}
	})
}

// TestAggregatorForDir verifies that per-directory configuration overrides
// the global flag values.
func TestAggregatorForDir(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	schemaOff := false

	cfg := config.NewConfig()
	cfg.Pattern = "*.csv"
	cfg.DirConfigs = &config.File{
		Directories: map[string]config.DirConfig{
			"metrics/linux": {
				Output:      "out/linux.csv",
				Pattern:     "bench_*.csv",
				SchemaCheck: &schemaOff,
			},
		},
	}

	t.Run("unconfigured directory uses flag values", func(t *testing.T) {
		t.Parallel()
		agg := aggregatorForDir(cfg, "metrics/win", logger)
		if got := agg.OutputPath(); got != filepath.Join("metrics", "combined_reports", "combined.csv") {
			t.Errorf("OutputPath = %s, want default sibling path", got)
		}
	})

	t.Run("configured directory uses its own output", func(t *testing.T) {
		t.Parallel()
		agg := aggregatorForDir(cfg, "metrics/linux", logger)
		if got := agg.OutputPath(); got != "out/linux.csv" {
			t.Errorf("OutputPath = %s, want out/linux.csv", got)
		}
	})
}

// TestCombineCommand runs the combine command end to end against real files.
func TestCombineCommand(t *testing.T) {
	t.Run("combines a directory of CSV files", func(t *testing.T) {
		parent := t.TempDir()
		t.Chdir(parent)
		inputDir := filepath.Join(parent, "metrics")
		if err := os.Mkdir(inputDir, 0750); err != nil {
			t.Fatal(err)
		}
		writeCSV(t, inputDir, "a.csv", "id,val\n1,10\n2,20\n")
		writeCSV(t, inputDir, "b.csv", "id,val\n3,30\n")
		summaryPath := filepath.Join(parent, "summary.txt")

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"combine", inputDir, "--no-history", "--summary-file", summaryPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		combined, err := os.ReadFile(filepath.Join(parent, "combined_reports", "combined.csv"))
		if err != nil {
			t.Fatalf("combined file was not written: %v", err)
		}
		if got := string(combined); got != "id,val\n1,10\n2,20\n3,30\n" {
			t.Errorf("combined file = %q, want %q", got, "id,val\n1,10\n2,20\n3,30\n")
		}

		summary, err := os.ReadFile(summaryPath)
		if err != nil {
			t.Fatalf("summary file was not written: %v", err)
		}
		if !strings.Contains(string(summary), "COMBINED REPORT") {
			t.Errorf("summary missing header:\n%s", summary)
		}
	})

	t.Run("JSON summary is written when requested", func(t *testing.T) {
		parent := t.TempDir()
		t.Chdir(parent)
		inputDir := filepath.Join(parent, "metrics")
		if err := os.Mkdir(inputDir, 0750); err != nil {
			t.Fatal(err)
		}
		writeCSV(t, inputDir, "a.csv", "id,val\n1,10\n")
		summaryPath := filepath.Join(parent, "summary.json")

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"combine", inputDir, "--no-history", "-j", "--summary-file", summaryPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		summary, err := os.ReadFile(summaryPath)
		if err != nil {
			t.Fatalf("summary file was not written: %v", err)
		}
		if !strings.Contains(string(summary), "\"total_rows\": 1") {
			t.Errorf("JSON summary missing row count:\n%s", summary)
		}
	})

	t.Run("empty input directory fails", func(t *testing.T) {
		parent := t.TempDir()
		t.Chdir(parent)
		inputDir := filepath.Join(parent, "metrics")
		if err := os.Mkdir(inputDir, 0750); err != nil {
			t.Fatal(err)
		}

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"combine", inputDir, "--no-history"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for directory without CSV files, got nil")
		}
	})

	t.Run("conflicting summary formats fail validation", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"combine", "metrics", "-j", "-m"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected validation error for -j with -m, got nil")
		}
	})
}
