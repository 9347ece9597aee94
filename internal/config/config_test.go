package config

import (
	"errors"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. This serves as living documentation of the defaults and
// ensures changes to them are intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default InputDir is metrics", func(t *testing.T) {
		t.Parallel()
		if cfg.InputDir != "metrics" {
			t.Errorf("expected InputDir to be 'metrics', got '%s'", cfg.InputDir)
		}
	})

	t.Run("default Pattern is *.csv", func(t *testing.T) {
		t.Parallel()
		if cfg.Pattern != "*.csv" {
			t.Errorf("expected Pattern to be '*.csv', got '%s'", cfg.Pattern)
		}
	})

	t.Run("default SchemaCheck is enabled", func(t *testing.T) {
		t.Parallel()
		if !cfg.SchemaCheck {
			t.Error("expected SchemaCheck to be true")
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default SaveHistory is enabled", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveHistory {
			t.Error("expected SaveHistory to be true")
		}
	})

	t.Run("default OutputPath is empty", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputPath != "" {
			t.Errorf("expected OutputPath to be empty, got '%s'", cfg.OutputPath)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		return &Config{
			InputDir:  "metrics/win",
			Pattern:   "*.csv",
			BatchSize: 4,
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty input dir returns ErrNoInputDir", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.InputDir = ""

		if err := cfg.Validate(); !errors.Is(err, ErrNoInputDir) {
			t.Errorf("expected ErrNoInputDir, got %v", err)
		}
	})

	t.Run("empty pattern returns ErrInvalidPattern", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Pattern = ""

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})

	t.Run("malformed pattern returns ErrInvalidPattern", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Pattern = "[.csv"

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})

	t.Run("conflicting summary formats return error", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONSummary = true
		cfg.MarkdownSummary = true

		if err := cfg.Validate(); !errors.Is(err, ErrConflictingSummaryFormats) {
			t.Errorf("expected ErrConflictingSummaryFormats, got %v", err)
		}
	})

	t.Run("zero batch size returns ErrInvalidBatchSize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.BatchSize = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("all mode without configured directories returns error", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.All = true
		cfg.DirConfigs = &File{Directories: map[string]DirConfig{}}

		if err := cfg.Validate(); !errors.Is(err, ErrNoConfiguredDirs) {
			t.Errorf("expected ErrNoConfiguredDirs, got %v", err)
		}
	})

	t.Run("all mode with configured directories is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.All = true
		cfg.DirConfigs = &File{
			Directories: map[string]DirConfig{"metrics/win": {}},
		}

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}
