package cli

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"config", "log-file"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2025-01-01")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		// pflag keeps parsed values between executions
		rootCmd.Flags().Set("version", "false")
	})

	if err := Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "1.2.3 (commit: abc123, built: 2025-01-01)") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestRejectsArgs(t *testing.T) {
	rootCmd.SetArgs([]string{"extra"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	if err := Execute(); err == nil {
		t.Fatal("expected error for unexpected argument")
	}
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	path := filepath.Join(t.TempDir(), "focusflow.log")
	closeLog, err := setupLogging(path)
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	log.Printf("hello from test")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("expected message in log file, got %q", data)
	}
}

func TestSetupLoggingDiscard(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	closeLog, err := setupLogging("")
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	defer closeLog()

	if log.Writer() != io.Discard {
		t.Errorf("expected log output to be discarded, got %T", log.Writer())
	}
}

func TestSetupLoggingBadPath(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	if _, err := setupLogging(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
