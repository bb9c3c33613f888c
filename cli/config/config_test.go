package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `connection_file: /run/kernel-abc.json
username: nbuser
exec_timeout: 30s
poll_interval: 25ms
transcript: ./session.jtr
log_level: debug
no_color: true
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "connection_file", cfg.ConnectionFile, "/run/kernel-abc.json")
	assertEqual(t, "username", cfg.Username, "nbuser")
	assertEqual(t, "transcript", cfg.Transcript, "./session.jtr")
	assertEqual(t, "log_level", cfg.LogLevel, "debug")
	if cfg.ExecTimeout.Duration != 30*time.Second {
		t.Errorf("exec_timeout: got %v, want 30s", cfg.ExecTimeout.Duration)
	}
	if cfg.PollInterval.Duration != 25*time.Millisecond {
		t.Errorf("poll_interval: got %v, want 25ms", cfg.PollInterval.Duration)
	}
	if !cfg.NoColor {
		t.Error("expected no_color=true")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ConnectionFile != "" {
		t.Errorf("expected empty connection_file, got %q", cfg.ConnectionFile)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/jute.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_CONNECTION_FILE", "/tmp/expanded.json")

	yaml := `connection_file: ${TEST_CONNECTION_FILE}`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "connection_file", cfg.ConnectionFile, "/tmp/expanded.json")
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	yaml := `connection_file: /run/kernel.json
bogus_key: should_fail
`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "bogus_key") {
		t.Errorf("error should mention the unknown key, got: %v", err)
	}
}

func TestLoad_WhitespaceOnlyConfig(t *testing.T) {
	path := writeTemp(t, "   \n  \n  \n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed for whitespace-only config: %v", err)
	}
	if cfg.Username != "" {
		t.Errorf("expected empty username, got %q", cfg.Username)
	}
}

func TestLoad_CommentsOnlyConfig(t *testing.T) {
	path := writeTemp(t, "# This is a comment\n# Another comment\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed for comments-only config: %v", err)
	}
	if cfg.ConnectionFile != "" {
		t.Errorf("expected empty connection_file, got %q", cfg.ConnectionFile)
	}
}

func TestDuration_InvalidFormat(t *testing.T) {
	yaml := `exec_timeout: not-a-duration`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error should mention invalid duration, got: %v", err)
	}
}

func TestDuration_EmptyIsZero(t *testing.T) {
	yaml := `exec_timeout: ""`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ExecTimeout.Duration != 0 {
		t.Errorf("expected zero duration, got %v", cfg.ExecTimeout.Duration)
	}
}

// writeTemp writes content to a temp file and returns the path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "jute.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}
