package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion verifies version resolution fallbacks.
func TestGetVersion(t *testing.T) {
	t.Run("ldflags value takes priority", func(t *testing.T) {
		original := version
		defer func() { version = original }()

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("getVersion() = %s, want v1.2.3", got)
		}
	})

	t.Run("never returns empty string", func(t *testing.T) {
		if got := getVersion(); got == "" {
			t.Error("getVersion() should never return an empty string")
		}
	})
}

// TestVersionCmd verifies the version command output.
func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{"reportcat version", "commit:", "built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
